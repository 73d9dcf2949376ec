//go:build ignore

// hash_secret.go prints a bcrypt hash usable as API_SECRET.
//
//	go run hash_secret.go 'mi-secreto'
package main

import (
	"fmt"
	"log"
	"os"

	"golang.org/x/crypto/bcrypt"
)

func main() {
	if len(os.Args) != 2 || os.Args[1] == "" {
		log.Fatal("uso: go run hash_secret.go <secreto>")
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(os.Args[1]), bcrypt.DefaultCost)
	if err != nil {
		log.Fatalf("error generando el hash: %v", err)
	}

	fmt.Println(string(hashed))
}
