// genhash prints the bcrypt hash of a PIN, for ADMIN_PIN_HASH.
// Uso: go run ./cmd/genhash 4321
package main

import (
	"fmt"
	"os"

	"golang.org/x/crypto/bcrypt"
)

func main() {
	if len(os.Args) != 2 || len(os.Args[1]) < 4 {
		fmt.Fprintln(os.Stderr, "uso: genhash <pin de 4 a 12 digitos>")
		os.Exit(2)
	}
	h, err := bcrypt.GenerateFromPassword([]byte(os.Args[1]), 12)
	if err != nil {
		panic(err)
	}
	fmt.Println(string(h))
}
