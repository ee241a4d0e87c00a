package service

import (
	"math/rand/v2"
)

const sizeShortURL = 6 // длина генерируемого короткого кода

// алфавит кода: только латиница и цифры, чтобы код безопасно жил в пути URL
const codeAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ" +
	"abcdefghijklmnopqrstuvwxyz" +
	"0123456789"

// NewRandomCode возвращает случайный короткий код указанной длины
func NewRandomCode(size int) string {

	if size == 0 {
		size = sizeShortURL
	}

	chars := []rune(codeAlphabet)

	b := make([]rune, size)
	for i := range b {
		b[i] = chars[rand.N(len(chars))]
	}

	return string(b)
}
