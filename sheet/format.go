package sheet

import (
	"strconv"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

// PendingQty 수량이 정해지지 않은 항목에 표시하는 문자열
const PendingQty = "待定"

// FormatMoney "$1,234.5" 형식 (en-US 자릿수 구분, 소수점 최대 3자리)
func FormatMoney(n float64) string {
	p := message.NewPrinter(language.English)
	return "$" + p.Sprint(number.Decimal(n, number.MaxFractionDigits(3)))
}

// FormatQty 수량을 표시용 문자열로 바꿉니다
func FormatQty(q *float64) string {
	if q == nil {
		return PendingQty
	}
	return FormatNumber(q)
}

// FormatNumber nil이면 빈 문자열
func FormatNumber(n *float64) string {
	if n == nil {
		return ""
	}
	return strconv.FormatFloat(*n, 'f', -1, 64)
}
