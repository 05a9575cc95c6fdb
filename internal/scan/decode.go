package scan

import (
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding/unicode"
)

// Decode converte bytes em texto UTF-8 trocando sequências inválidas por U+FFFD.
// Nunca falha: a saída do nmap pode trazer bytes arbitrários das respostas de rede.
func Decode(b []byte) string {
	if utf8.Valid(b) {
		return string(b)
	}
	out, err := unicode.UTF8.NewDecoder().Bytes(b)
	if err != nil {
		return strings.ToValidUTF8(string(b), string(utf8.RuneError))
	}
	return string(out)
}
