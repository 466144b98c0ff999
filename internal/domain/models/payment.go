package models

// PaymentOption describes one selectable payment method and its providers.
type PaymentOption struct {
	Method          PaymentMethod `json:"method"`
	Label           string        `json:"label"`
	Providers       []string      `json:"providers,omitempty"`
	DefaultProvider string        `json:"default_provider,omitempty"`
}

var paymentProviders = map[PaymentMethod][]string{
	PaymentEWallet: {"gopay", "ovo", "dana", "shopeepay"},
	PaymentBank:    {"bca", "bni", "mandiri", "bri"},
}

// PaymentOptions returns the payment catalogue in display order.
func PaymentOptions() []PaymentOption {
	methods := []PaymentMethod{PaymentCash, PaymentEWallet, PaymentBank}
	options := make([]PaymentOption, 0, len(methods))
	for _, m := range methods {
		opt := PaymentOption{Method: m, Label: m.Label()}
		if providers := paymentProviders[m]; len(providers) > 0 {
			opt.Providers = append([]string(nil), providers...)
			opt.DefaultProvider = providers[0]
		}
		options = append(options, opt)
	}
	return options
}

// DefaultProvider returns the provider preselected for a method, or "".
func (m PaymentMethod) DefaultProvider() string {
	if providers := paymentProviders[m]; len(providers) > 0 {
		return providers[0]
	}
	return ""
}

// AcceptsProvider reports whether provider is offered for the method.
// Cash accepts no provider.
func (m PaymentMethod) AcceptsProvider(provider string) bool {
	for _, p := range paymentProviders[m] {
		if p == provider {
			return true
		}
	}
	return false
}
