package transaction

import (
	"github.com/shopspring/decimal"
)

const (
	ResultFailed  = 0
	ResultSuccess = 1
)

// TransactionRequest is the partner submission. JSON keys are matched
// case-insensitively, so "PartnerKey" and "partnerkey" both bind.
type TransactionRequest struct {
	PartnerKey      string       `json:"partnerkey"`
	PartnerRefNo    string       `json:"partnerrefno"`
	PartnerPassword string       `json:"partnerpassword"`
	TotalAmount     int64        `json:"totalamount"`
	Items           []ItemDetail `json:"items,omitempty"`
	Timestamp       string       `json:"timestamp"`
	Sig             string       `json:"sig"`
}

type ItemDetail struct {
	PartnerItemRef string `json:"partneritemref"`
	Name           string `json:"name"`
	Qty            int64  `json:"qty"`
	UnitPrice      int64  `json:"unitprice"`
}

type ErrorResponse struct {
	Result        int    `json:"result"`
	ResultMessage string `json:"resultmessage"`
}

type SuccessResponse struct {
	Result        int    `json:"result"`
	TotalAmount   int64  `json:"totalamount"`
	TotalDiscount Amount `json:"totaldiscount"`
	FinalAmount   Amount `json:"finalamount"`
}

// Amount renders a decimal as a bare JSON number instead of the quoted
// string shopspring/decimal produces by default.
type Amount struct {
	decimal.Decimal
}

func (a Amount) MarshalJSON() ([]byte, error) {
	return []byte(a.Decimal.String()), nil
}

func NewErrorResponse(message string) ErrorResponse {
	return ErrorResponse{
		Result:        ResultFailed,
		ResultMessage: message,
	}
}

func NewSuccessResponse(q *Quote) SuccessResponse {
	return SuccessResponse{
		Result:        ResultSuccess,
		TotalAmount:   q.TotalAmount,
		TotalDiscount: Amount{q.TotalDiscount},
		FinalAmount:   Amount{q.FinalAmount},
	}
}
