package utils

import "unicode"

// remove qualquer coisa que não seja dígito
func SanitizeCNPJ(s string) string {
	out := make([]rune, 0, len(s))
	for _, r := range s {
		if unicode.IsDigit(r) {
			out = append(out, r)
		}
	}
	return string(out)
}

// ValidateCNPJ confere tamanho (14), rejeita todos os dígitos iguais e valida
// os dois dígitos verificadores (módulo 11). Espera o CNPJ já sanitizado.
func ValidateCNPJ(cnpj string) bool {
	if len(cnpj) != 14 {
		return false
	}
	allEq := true
	for i := 1; i < 14; i++ {
		if cnpj[i] != cnpj[0] {
			allEq = false
			break
		}
	}
	if allEq {
		return false
	}
	d := make([]int, 14)
	for i := range cnpj {
		if cnpj[i] < '0' || cnpj[i] > '9' {
			return false
		}
		d[i] = int(cnpj[i] - '0')
	}
	return checkDigit(d[:12]) == d[12] && checkDigit(d[:13]) == d[13]
}

func checkDigit(digits []int) int {
	// pesos 2..9 da direita para a esquerda, reiniciando em 2
	sum, w := 0, 2
	for i := len(digits) - 1; i >= 0; i-- {
		sum += digits[i] * w
		w++
		if w > 9 {
			w = 2
		}
	}
	if r := sum % 11; r >= 2 {
		return 11 - r
	}
	return 0
}
