package models

// AddressLookup is the CEP lookup answer.
type AddressLookup struct {
	Street     string `json:"logradouro"`
	Complement string `json:"complemento"`
	District   string `json:"bairro"`
	City       string `json:"localidade"`
	State      string `json:"uf"`
	CEP        string `json:"cep"`
}

// CompanyLookup is the CNPJ lookup answer.
type CompanyLookup struct {
	Name     string `json:"nome"`
	Email    string `json:"email"`
	Street   string `json:"logradouro"`
	Number   string `json:"numero"`
	District string `json:"bairro"`
	CEP      string `json:"cep"`
	City     string `json:"municipio"`
	State    string `json:"uf"`
}
