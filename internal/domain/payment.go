package domain

type PaymentMethod string

const (
	PaymentMethodPix          PaymentMethod = "pix"
	PaymentMethodCardOrBillet PaymentMethod = "cardOrBillet"
)

func ParsePaymentMethod(s string) (PaymentMethod, error) {
	switch PaymentMethod(s) {
	case PaymentMethodPix, PaymentMethodCardOrBillet:
		return PaymentMethod(s), nil
	default:
		return "", ErrInvalidPaymentMethod
	}
}

// PaymentInstruction is what the buyer receives after checkout: either a PIX
// charge or a hosted payment link.
type PaymentInstruction interface {
	Method() PaymentMethod
	isPaymentInstruction()
}

type PixInstruction struct {
	TransactionID string `json:"transaction_id"`
	QRCodeText    string `json:"qr_code_text"`
	QRCodeImage   string `json:"qr_code_image"`
}

func (PixInstruction) Method() PaymentMethod { return PaymentMethodPix }
func (PixInstruction) isPaymentInstruction() {}

type LinkInstruction struct {
	PaymentURL string `json:"payment_url"`
	ChargeID   string `json:"charge_id"`
}

func (LinkInstruction) Method() PaymentMethod { return PaymentMethodCardOrBillet }
func (LinkInstruction) isPaymentInstruction() {}
