package domain

// ============================================================
// App settings: the app_settings singleton
// ============================================================

const (
	DefaultAppName             = "Urban Hand"
	DefaultHeroTitle           = "Connecting Local Hands to Local Needs."
	DefaultHeroSubtitle        = "Find trusted local service providers in your city, with just a few clicks."
	DefaultGetListedText       = "Get Listed"
	DefaultAccentColor         = "#14b8a6"
	DefaultUPIID               = "urbanhand@upi"
	DefaultPaymentInstructions = "Please make the payment using the UPI details and upload a screenshot."
)

// AppSettings enumerates every known setting key. Categories live here so that
// reorder and toggle are a single document write.
type AppSettings struct {
	AppName             string            `json:"app_name" validate:"required"`
	HeroTitle           string            `json:"hero_title"`
	HeroSubtitle        string            `json:"hero_subtitle"`
	GetListedText       string            `json:"get_listed_text"`
	AccentColor         string            `json:"accent_color" validate:"omitempty,hexcolor"`
	UPIID               string            `json:"upi_id"`
	QRCodeURL           string            `json:"qr_code_url" validate:"omitempty,url"`
	PaymentInstructions string            `json:"payment_instructions"`
	ServiceCategories   []ServiceCategory `json:"service_categories" validate:"dive"`
}

// DefaultSettings returns the settings seeded on first load.
func DefaultSettings() AppSettings {
	return AppSettings{
		AppName:             DefaultAppName,
		HeroTitle:           DefaultHeroTitle,
		HeroSubtitle:        DefaultHeroSubtitle,
		GetListedText:       DefaultGetListedText,
		AccentColor:         DefaultAccentColor,
		UPIID:               DefaultUPIID,
		PaymentInstructions: DefaultPaymentInstructions,
		ServiceCategories:   DefaultCategories(),
	}
}

// SettingsPatch is the admin settings edit. Categories are edited through
// their own endpoints, so they are not part of the patch.
type SettingsPatch struct {
	AppName             *string `json:"app_name,omitempty" validate:"omitempty,min=1"`
	HeroTitle           *string `json:"hero_title,omitempty"`
	HeroSubtitle        *string `json:"hero_subtitle,omitempty"`
	GetListedText       *string `json:"get_listed_text,omitempty"`
	AccentColor         *string `json:"accent_color,omitempty" validate:"omitempty,hexcolor"`
	UPIID               *string `json:"upi_id,omitempty"`
	QRCodeURL           *string `json:"qr_code_url,omitempty" validate:"omitempty,url"`
	PaymentInstructions *string `json:"payment_instructions,omitempty"`
}

// Apply copies every non-nil field onto s.
func (p *SettingsPatch) Apply(s *AppSettings) {
	setString(&s.AppName, p.AppName)
	setString(&s.HeroTitle, p.HeroTitle)
	setString(&s.HeroSubtitle, p.HeroSubtitle)
	setString(&s.GetListedText, p.GetListedText)
	setString(&s.AccentColor, p.AccentColor)
	setString(&s.UPIID, p.UPIID)
	setString(&s.QRCodeURL, p.QRCodeURL)
	setString(&s.PaymentInstructions, p.PaymentInstructions)
}

// PaymentDetails is the public view used by the get-listed payment step.
type PaymentDetails struct {
	UPIID        string `json:"upi_id"`
	QRCodeURL    string `json:"qr_code_url"`
	Instructions string `json:"payment_instructions"`
}
