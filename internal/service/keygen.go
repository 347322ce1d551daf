package service

import (
	"strconv"
	"time"
)

// Алфавит без визуально похожих символов (0/O, 1/l/I и гласные исключены).
const keyAlphabet = "23456789bcdfghjkmnpqrstvwxyzBCDFGHJKLMNPQRSTVWXYZ"

// Максимальная длина пользовательского ключа.
const maxSpecialKeyLen = 10

// KeyGenerator синтезирует короткий ключ из метки времени.
//
// Ключ детерминирован в пределах секунды: два создания в одну секунду
// дают одинаковый ключ, проверки коллизий нет. Это известная слабость
// исходной системы, сохранена намеренно.
type KeyGenerator struct{}

func NewKeyGenerator() *KeyGenerator {
	return &KeyGenerator{}
}

// Generate кодирует метку времени (месяц, день, час, минута, секунда,
// каждое поле с ведущим нулём) как base-10 число в алфавит keyAlphabet.
func (g *KeyGenerator) Generate(t time.Time) string {
	// "0102150405" = MMddHHmmss
	num, _ := strconv.ParseInt(t.Format("0102150405"), 10, 64)
	return encodeKey(num)
}

// encodeKey позиционное кодирование: деление с остатком, цифры
// вставляются в начало, старший разряд первым.
func encodeKey(num int64) string {
	base := int64(len(keyAlphabet))
	var key []byte
	for num > 0 {
		key = append([]byte{keyAlphabet[num%base]}, key...)
		num /= base
	}
	return string(key)
}
