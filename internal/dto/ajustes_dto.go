package dto

// AjustesRequest is a partial update of the restaurant settings.
type AjustesRequest struct {
	NombreRestaurante *string `json:"nombre_restaurante" validate:"omitempty,min=1,max=100"`
	Mesas             *int    `json:"mesas"              validate:"omitempty,min=1,max=500"`
}
