package model

import "strings"

// Bucket is the reconciliation bucket a free-text payment method falls into.
type Bucket string

const (
	BucketEfectivo      Bucket = "efectivo"
	BucketTarjeta       Bucket = "tarjeta"
	BucketTransferencia Bucket = "transferencia"
	BucketQR            Bucket = "qr"
	BucketOtros         Bucket = "otros"
)

// Buckets lists every bucket in report order.
var Buckets = []Bucket{BucketEfectivo, BucketTarjeta, BucketTransferencia, BucketQR, BucketOtros}

// NormalizarMetodo maps a free-text payment method to its bucket. Matching is
// case-insensitive and by substring, checked in this order: efectivo, tarjeta,
// transfer, qr/mp. Sales and their reversals both go through here.
func NormalizarMetodo(raw string) Bucket {
	t := strings.ToLower(raw)
	switch {
	case strings.Contains(t, "efectivo"):
		return BucketEfectivo
	case strings.Contains(t, "tarjeta"):
		return BucketTarjeta
	case strings.Contains(t, "transfer"):
		return BucketTransferencia
	case strings.Contains(t, "qr"), strings.Contains(t, "mp"):
		return BucketQR
	default:
		return BucketOtros
	}
}

// Pago is one payment applied to an order.
type Pago struct {
	Metodo string `json:"metodo"`
	Monto  int64  `json:"monto"`
}

// SumarPagos returns the sum of all payment amounts.
func SumarPagos(pagos []Pago) int64 {
	var total int64
	for _, p := range pagos {
		total += p.Monto
	}
	return total
}

// PorMetodo holds one running subtotal per bucket.
type PorMetodo map[Bucket]int64

// NuevoPorMetodo returns a map with every bucket present at zero.
func NuevoPorMetodo() PorMetodo {
	m := make(PorMetodo, len(Buckets))
	for _, b := range Buckets {
		m[b] = 0
	}
	return m
}

// Total sums every bucket.
func (m PorMetodo) Total() int64 {
	var total int64
	for _, v := range m {
		total += v
	}
	return total
}

func (m PorMetodo) clone() PorMetodo {
	if m == nil {
		return NuevoPorMetodo()
	}
	out := make(PorMetodo, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}
