package domain

import "time"

// ============================================================
// Plans, applications and payment submissions
// ============================================================

// PlanDuration is the billing period of a pricing plan.
type PlanDuration string

const (
	DurationMonthly     PlanDuration = "Monthly"
	DurationThreeMonths PlanDuration = "3 Months"
	DurationSixMonths   PlanDuration = "6 Months"
	DurationYearly      PlanDuration = "Yearly"
	DurationLifetime    PlanDuration = "Lifetime"
)

// PricingPlan is a named pricing tier.
type PricingPlan struct {
	ID       string       `json:"id"`
	Name     string       `json:"name" validate:"required"`
	Price    int          `json:"price" validate:"min=0"`
	Duration PlanDuration `json:"duration" validate:"oneof=Monthly '3 Months' '6 Months' Yearly Lifetime"`
	Features []string     `json:"features"`
	Active   bool         `json:"active"`
}

// DefaultPlans is seeded when the plans collection is empty.
func DefaultPlans() []PricingPlan {
	return []PricingPlan{
		{
			Name:     "Basic",
			Price:    0,
			Duration: DurationLifetime,
			Features: []string{
				"Appear in normal search results",
				"Customers can call/WhatsApp",
				"Can get reviews",
			},
			Active: true,
		},
		{
			Name:     "Featured",
			Price:    199,
			Duration: DurationMonthly,
			Features: []string{
				"Appears at top of category & home screen",
				"Verified badge",
				"Highlighted card design",
			},
			Active: true,
		},
		{
			Name:     "Premium",
			Price:    499,
			Duration: DurationThreeMonths,
			Features: []string{
				"All Featured benefits",
				"Social media promotion once a month",
				"'Verified Partner' tag",
			},
			Active: true,
		},
	}
}

// PlanTier is the plan an applicant picks on the get-listed form.
type PlanTier string

const (
	PlanBasic    PlanTier = "basic"
	PlanFeatured PlanTier = "featured"
	PlanPremium  PlanTier = "premium"
)

// ProviderApplication is the get-listed form payload.
type ProviderApplication struct {
	FullName       string   `json:"full_name" validate:"required"`
	BusinessName   string   `json:"business_name" validate:"required"`
	Category       string   `json:"category" validate:"required"`
	PhoneNumber    string   `json:"phone_number" validate:"required"`
	WhatsappNumber string   `json:"whatsapp_number"`
	Address        string   `json:"address" validate:"required"`
	City           string   `json:"city"`
	Description    string   `json:"description"`
	Plan           PlanTier `json:"plan" validate:"oneof=basic featured premium"`
	PaymentProof   string   `json:"payment_proof,omitempty"`
}

// SubmissionStatus is the review state of a payment submission.
type SubmissionStatus string

const (
	StatusPending  SubmissionStatus = "Pending"
	StatusApproved SubmissionStatus = "Approved"
	StatusRejected SubmissionStatus = "Rejected"
)

// IsTerminal reports whether no further transition is allowed.
func (s SubmissionStatus) IsTerminal() bool {
	return s == StatusApproved || s == StatusRejected
}

// PaymentSubmission is a paid-plan application awaiting admin review.
type PaymentSubmission struct {
	ID              string              `json:"id"`
	ApplicantName   string              `json:"applicant_name"`
	BusinessName    string              `json:"business_name"`
	PlanSelected    string              `json:"plan_selected"`
	Amount          int                 `json:"amount"`
	ScreenshotURL   string              `json:"screenshot_url"`
	SubmitDate      time.Time           `json:"submit_date"`
	Status          SubmissionStatus    `json:"status"`
	Notes           string              `json:"notes"`
	ApplicationData ProviderApplication `json:"application_data"`
	ProviderID      int64               `json:"provider_id,omitempty"`
}

// SubmitResult tells the caller which branch of the workflow ran.
type SubmitResult struct {
	Provider   *Provider          `json:"provider,omitempty"`
	Submission *PaymentSubmission `json:"submission,omitempty"`
}

// PlanInput is the admin create/edit plan body. Active defaults to true.
type PlanInput struct {
	Name     string       `json:"name" validate:"required"`
	Price    int          `json:"price" validate:"min=0"`
	Duration PlanDuration `json:"duration" validate:"oneof=Monthly '3 Months' '6 Months' Yearly Lifetime"`
	Features []string     `json:"features"`
	Active   *bool        `json:"active,omitempty"`
}

// FeatureRequest adds one feature line to a plan.
type FeatureRequest struct {
	Feature string `json:"feature" validate:"required"`
}

// RejectRequest carries the admin's rejection notes.
type RejectRequest struct {
	Notes string `json:"notes"`
}
