package models

// Review actions accepted by /empresas/aprovar.
const (
	ReviewApprove = "aprovar"
	ReviewReject  = "rejeitar"
)

// ReviewRequest is the body of a company approval decision.
type ReviewRequest struct {
	CompanyID string `json:"empresaId"`
	Action    string `json:"acao"`
}

// ReviewResponse reports the outcome of a decision.
type ReviewResponse struct {
	Message string   `json:"message"`
	Company *Company `json:"empresa"`
}
