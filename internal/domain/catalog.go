package domain

import (
	"fmt"
	"net/url"
	"strings"
)

// ============================================================
// Catalog: categories and provider listings
// ============================================================

// ServiceCategory is a public service category. Slice order is display order.
type ServiceCategory struct {
	ID      string `json:"id"`
	Name    string `json:"name" validate:"required"`
	Icon    string `json:"icon" validate:"category_icon"`
	Enabled bool   `json:"enabled"`
}

// CategoryIcons is the closed icon palette a category may use.
var CategoryIcons = []string{
	"zap",
	"droplet",
	"scissors",
	"hammer",
	"utensils-crossed",
	"book-user",
	"camera",
	"wrench",
	"paint-roller",
	"car",
	"home",
	"briefcase",
	"heart-pulse",
	"graduation-cap",
	"music",
	"package",
	"shopping-bag",
	"ellipsis",
}

// IsCategoryIcon reports whether icon belongs to the fixed palette.
func IsCategoryIcon(icon string) bool {
	for _, i := range CategoryIcons {
		if i == icon {
			return true
		}
	}
	return false
}

// DefaultCategories is the category list seeded into fresh settings.
func DefaultCategories() []ServiceCategory {
	return []ServiceCategory{
		{ID: "1", Name: "Electrician", Icon: "zap", Enabled: true},
		{ID: "2", Name: "Plumber", Icon: "droplet", Enabled: true},
		{ID: "3", Name: "Tailor", Icon: "scissors", Enabled: true},
		{ID: "4", Name: "Carpenter", Icon: "hammer", Enabled: true},
		{ID: "5", Name: "Tiffin", Icon: "utensils-crossed", Enabled: true},
		{ID: "6", Name: "Tutor", Icon: "book-user", Enabled: true},
		{ID: "7", Name: "Photographer", Icon: "camera", Enabled: true},
		{ID: "8", Name: "Others", Icon: "ellipsis", Enabled: true},
	}
}

// Provider is a published catalog listing.
type Provider struct {
	ID       int64   `json:"id"`
	Name     string  `json:"name"`
	Category string  `json:"category"`
	Location string  `json:"location"`
	Rating   float64 `json:"rating"`
	Reviews  int     `json:"reviews"`
	ImageURL string  `json:"image_url"`
	Featured bool    `json:"featured"`

	// Contact details carried over from the application.
	OwnerName      string `json:"owner_name,omitempty"`
	PhoneNumber    string `json:"phone_number,omitempty"`
	WhatsappNumber string `json:"whatsapp_number,omitempty"`
	City           string `json:"city,omitempty"`
	Description    string `json:"description,omitempty"`
}

const avatarBaseURL = "https://api.dicebear.com/9.x/notionists/svg"

// AvatarURL derives the placeholder image for a business name.
// The same name always yields the same URL.
func AvatarURL(businessName string) string {
	seed := strings.ReplaceAll(businessName, " ", "")
	return fmt.Sprintf("%s?seed=%s", avatarBaseURL, url.QueryEscape(seed))
}

// ProviderPatch carries an admin edit. Nil fields are left untouched.
type ProviderPatch struct {
	Name           *string  `json:"name,omitempty"`
	Category       *string  `json:"category,omitempty"`
	Location       *string  `json:"location,omitempty"`
	Rating         *float64 `json:"rating,omitempty" validate:"omitempty,min=0,max=5"`
	Reviews        *int     `json:"reviews,omitempty" validate:"omitempty,min=0"`
	ImageURL       *string  `json:"image_url,omitempty"`
	Featured       *bool    `json:"featured,omitempty"`
	OwnerName      *string  `json:"owner_name,omitempty"`
	PhoneNumber    *string  `json:"phone_number,omitempty"`
	WhatsappNumber *string  `json:"whatsapp_number,omitempty"`
	City           *string  `json:"city,omitempty"`
	Description    *string  `json:"description,omitempty"`
}

// Apply copies every non-nil field onto p.
func (pp *ProviderPatch) Apply(p *Provider) {
	setString(&p.Name, pp.Name)
	setString(&p.Category, pp.Category)
	setString(&p.Location, pp.Location)
	setString(&p.ImageURL, pp.ImageURL)
	setString(&p.OwnerName, pp.OwnerName)
	setString(&p.PhoneNumber, pp.PhoneNumber)
	setString(&p.WhatsappNumber, pp.WhatsappNumber)
	setString(&p.City, pp.City)
	setString(&p.Description, pp.Description)
	if pp.Rating != nil {
		p.Rating = *pp.Rating
	}
	if pp.Reviews != nil {
		p.Reviews = *pp.Reviews
	}
	if pp.Featured != nil {
		p.Featured = *pp.Featured
	}
}

func setString(dst *string, src *string) {
	if src != nil {
		*dst = *src
	}
}

// ListingInput is the admin "add listing" body.
type ListingInput struct {
	Name           string `json:"name" validate:"required"`
	Category       string `json:"category" validate:"required"`
	Location       string `json:"location" validate:"required"`
	ImageURL       string `json:"image_url"`
	Featured       bool   `json:"featured"`
	OwnerName      string `json:"owner_name"`
	PhoneNumber    string `json:"phone_number"`
	WhatsappNumber string `json:"whatsapp_number"`
	City           string `json:"city"`
	Description    string `json:"description"`
}

// CategoryInput is the admin create/edit category body.
type CategoryInput struct {
	Name    string `json:"name" validate:"required"`
	Icon    string `json:"icon" validate:"category_icon"`
	Enabled *bool  `json:"enabled,omitempty"`
}

// ReorderRequest moves the category at From to position To.
type ReorderRequest struct {
	From int `json:"from"`
	To   int `json:"to"`
}

// EnabledRequest toggles a category on or off.
type EnabledRequest struct {
	Enabled bool `json:"enabled"`
}
