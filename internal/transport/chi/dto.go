package chi

import compareuc "github.com/kailas-cloud/pricecheck/internal/usecase/compare"

type compareRequest struct {
	Address  string  `json:"address"`
	RadiusKM float64 `json:"radius_km"`
	ListText string  `json:"list_text"`
	UseWeb   bool    `json:"use_web"`
	Provider string  `json:"provider"`
}

func (r compareRequest) toInput() compareuc.Input {
	return compareuc.Input{
		Address:  r.Address,
		RadiusKM: r.RadiusKM,
		ListText: r.ListText,
		UseWeb:   r.UseWeb,
		Provider: r.Provider,
	}
}

type providerErrorDetails struct {
	Capability string `json:"capability"`
	Provider   string `json:"provider,omitempty"`
	StatusCode int    `json:"status_code,omitempty"`
	Body       string `json:"body,omitempty"`
}

type providersResponse struct {
	Default   string   `json:"default"`
	Providers []string `json:"providers"`
}

type healthResponse struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks"`
}
