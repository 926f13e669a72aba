package model

import "encoding/json"

// ClientConfig is the typed view of the clients.config JSON column. Every
// field is optional; the prompt builder substitutes defaults for blanks.
// Canonical keys are camelCase; snake_case aliases from older rows are
// accepted on read.
type ClientConfig struct {
	CompanyName        string `json:"companyName,omitempty"`
	CompanyDescription string `json:"companyDescription,omitempty"`
	SignatoryName      string `json:"signatoryName,omitempty"`
	SignatoryRole      string `json:"signatoryRole,omitempty"`
	Email              string `json:"email,omitempty"`
	Phone              string `json:"phone,omitempty"`
	Address            string `json:"address,omitempty"`
	SIRET              string `json:"siret,omitempty"`
	TVANumber          string `json:"tvaNumber,omitempty"`
	PaymentDelay       string `json:"paymentDelay,omitempty"`
	BankDetails        string `json:"bankDetails,omitempty"`
}

type clientConfigAliases struct {
	CompanyName        string `json:"company_name"`
	CompanyDescription string `json:"company_description"`
	SignatoryName      string `json:"signatory_name"`
	SignatoryRole      string `json:"signatory_role"`
	TVANumber          string `json:"tva_number"`
	PaymentDelay       string `json:"payment_delay"`
	BankDetails        string `json:"bank_details"`
}

// ParseClientConfig decodes a stored config document. Unknown keys are
// ignored; a malformed document yields the zero config.
func ParseClientConfig(raw string) ClientConfig {
	var cfg ClientConfig
	if raw == "" {
		return cfg
	}
	if err := json.Unmarshal([]byte(raw), &cfg); err != nil {
		return ClientConfig{}
	}

	var alias clientConfigAliases
	_ = json.Unmarshal([]byte(raw), &alias)
	if cfg.CompanyName == "" {
		cfg.CompanyName = alias.CompanyName
	}
	if cfg.CompanyDescription == "" {
		cfg.CompanyDescription = alias.CompanyDescription
	}
	if cfg.SignatoryName == "" {
		cfg.SignatoryName = alias.SignatoryName
	}
	if cfg.SignatoryRole == "" {
		cfg.SignatoryRole = alias.SignatoryRole
	}
	if cfg.TVANumber == "" {
		cfg.TVANumber = alias.TVANumber
	}
	if cfg.PaymentDelay == "" {
		cfg.PaymentDelay = alias.PaymentDelay
	}
	if cfg.BankDetails == "" {
		cfg.BankDetails = alias.BankDetails
	}
	return cfg
}

// Marshal re-encodes the config with canonical keys for storage.
func (c ClientConfig) Marshal() string {
	b, err := json.Marshal(c)
	if err != nil {
		return "{}"
	}
	return string(b)
}
