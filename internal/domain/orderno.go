package domain

import (
	"fmt"
	"math/rand"
	"time"
)

// OrderNoPrefix — префикс всех номеров заказов.
const OrderNoPrefix = "DL"

// GenerateOrderNo генерирует читаемый номер заказа.
// Формат: DL + ГГГГММДДЧЧММСС + 4 случайные цифры.
func GenerateOrderNo(now time.Time) string {
	return fmt.Sprintf("%s%s%04d", OrderNoPrefix, now.Format("20060102150405"), rand.Intn(10000)) //nolint:gosec
}
