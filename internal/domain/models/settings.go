package models

import "time"

// StoreSettings holds the store profile printed on receipts.
type StoreSettings struct {
	ID            string     `json:"id,omitempty"`
	StoreName     string     `json:"store_name" binding:"required"`
	Address       string     `json:"address,omitempty"`
	Phone         string     `json:"phone,omitempty"`
	Email         string     `json:"email,omitempty" binding:"omitempty,email"`
	TaxID         string     `json:"tax_id,omitempty"`
	ReceiptHeader string     `json:"receipt_header,omitempty"`
	ReceiptFooter string     `json:"receipt_footer,omitempty"`
	Logo          string     `json:"logo,omitempty"`
	CreatedAt     *time.Time `json:"created_at,omitempty"`
	UpdatedAt     *time.Time `json:"updated_at,omitempty"`
}

// UISettings configures the cashier screen.
type UISettings struct {
	Layout     LayoutSettings     `json:"layout"`
	Appearance AppearanceSettings `json:"appearance"`
	Categories CategorySettings   `json:"categories"`
}

// LayoutSettings controls the product grid.
type LayoutSettings struct {
	GridSize   string `json:"grid_size" binding:"oneof=small medium large"`
	ShowImages bool   `json:"show_images"`
	ShowPrices bool   `json:"show_prices"`
}

// AppearanceSettings controls colours and typography.
type AppearanceSettings struct {
	PrimaryColor   string `json:"primary_color" binding:"rgbhex"`
	SecondaryColor string `json:"secondary_color" binding:"rgbhex"`
	FontSize       string `json:"font_size" binding:"oneof=small medium large"`
	ButtonStyle    string `json:"button_style" binding:"oneof=square rounded pill"`
}

// CategorySettings controls the category filter bar.
type CategorySettings struct {
	Visible  bool   `json:"visible"`
	Position string `json:"position" binding:"oneof=top left right"`
}

// DefaultUISettings returns the settings used when none are stored.
func DefaultUISettings() UISettings {
	return UISettings{
		Layout: LayoutSettings{
			GridSize:   "medium",
			ShowImages: true,
			ShowPrices: true,
		},
		Appearance: AppearanceSettings{
			PrimaryColor:   "#4f46e5",
			SecondaryColor: "#f97316",
			FontSize:       "medium",
			ButtonStyle:    "rounded",
		},
		Categories: CategorySettings{
			Visible:  true,
			Position: "top",
		},
	}
}

// UISettingsRecord is the stored row wrapping UISettings.
type UISettingsRecord struct {
	ID        string     `json:"id,omitempty"`
	UserID    *string    `json:"user_id"`
	Settings  UISettings `json:"settings"`
	CreatedAt *time.Time `json:"created_at,omitempty"`
	UpdatedAt *time.Time `json:"updated_at,omitempty"`
}
