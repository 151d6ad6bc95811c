package models

import "github.com/shopspring/decimal"

type BillData struct {
	Username    string          `json:"username"`
	YearMonth   string          `json:"year_month"`
	TotalKWh    decimal.Decimal `json:"total_kwh"`
	Amount      decimal.Decimal `json:"amount"`
	IsPaid      bool            `json:"is_paid"`
	PaymentDate *string         `json:"payment_date"`
	Message     string          `json:"message"`
}

type Payment struct {
	Month  string          `json:"month"`
	Amount decimal.Decimal `json:"amount"`
}

type PaymentHistory struct {
	Username string    `json:"username"`
	Payments []Payment `json:"payments"`
	Email    string    `json:"email"`
}

// PaymentDetails is the card form submitted when paying a bill.
type PaymentDetails struct {
	CardNumber string `json:"card_number"`
	Expiry     string `json:"expiry"`
	CVV        string `json:"cvv"`
	Name       string `json:"name"`
}
