package models

// DefaultSheetTitle 데이터베이스 제목이 없을 때 사용하는 제목
const DefaultSheetTitle = "工程標單表格"

// BidItem 표시용으로 정리된 입찰표 항목. JSON 필드명은 프런트엔드와의 계약입니다.
type BidItem struct {
	ID        string   `json:"ID"`
	Stage     string   `json:"Stage"`
	WorkType  string   `json:"WorkType"`
	Item      string   `json:"Item"`
	Spec      string   `json:"Spec"`
	Note      string   `json:"Note"`
	Qty       *float64 `json:"Qty"`
	Unit      string   `json:"Unit"`
	UnitPrice float64  `json:"UnitPrice"`
	Amount    float64  `json:"Amount"`
	Order     *float64 `json:"Order"`
	Reference string   `json:"Reference"`
	Updated   string   `json:"Updated"`
}

// Sheet 데이터베이스 한 개 분량의 입찰표
type Sheet struct {
	Title       string    `json:"dbTitle"`
	Description string    `json:"dbDescription"`
	Items       []BidItem `json:"items"`
}

// ComputeAmount 금액이 없을 때 수량 × 단가로 계산합니다 (없는 값은 0)
func ComputeAmount(amount, qty, unitPrice *float64) float64 {
	if amount != nil {
		return *amount
	}
	var q, p float64
	if qty != nil {
		q = *qty
	}
	if unitPrice != nil {
		p = *unitPrice
	}
	return q * p
}
