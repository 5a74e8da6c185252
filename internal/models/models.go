package models

// InputRecord is one row of the target workbook. Records are immutable once
// read; Index is the 0-based source row position, used for ordering and logs.
type InputRecord struct {
	Index         int    `json:"index"`
	Brand         string `json:"brand"`
	Model         string `json:"model"`
	DialColor     string `json:"dial_color"`
	BraceletShape string `json:"bracelet_shape"`
}

// Listing is one discovered marketplace entry before extraction: the item
// page URL and its raw text content as returned by the search collaborator.
type Listing struct {
	URL     string `json:"url"`
	Content string `json:"content"`
}

// Accessories describes what ships with a listed watch. The object is always
// present on a WatchRecord; unknown sub-fields stay null.
type Accessories struct {
	HasWarrantyCard  *bool   `json:"has_warranty_card"`
	HasBox           *bool   `json:"has_box"`
	OtherDescription *string `json:"other_description"`
}

// WatchRecord is the normalized extraction result for one listing. Every
// descriptive field is nullable; Error is set when extraction failed for the
// listing, in which case the descriptive fields are null.
type WatchRecord struct {
	Name         *string     `json:"name"`
	ModelNumber  *string     `json:"model_number"`
	DialColor    *string     `json:"dial_color"`
	BraceletType *string     `json:"bracelet_type"`
	Price        *int64      `json:"price"`
	URL          *string     `json:"url"`
	Seller       *string     `json:"seller"`
	WarrantyDate *string     `json:"warranty_date"`
	Accessories  Accessories `json:"accessories"`
	Condition    *string     `json:"condition"`
	Error        *string     `json:"error,omitempty"`
}

// RowResult is the outcome for one input record: the keywords that were
// searched, the extracted records in listing order, and an optional row-level
// error. There is exactly one RowResult per InputRecord, in input order.
type RowResult struct {
	InputKeywords    string        `json:"input_keywords"`
	ExtractedResults []WatchRecord `json:"extracted_results"`
	RowError         *string       `json:"row_error"`
}

// StrPtr returns a pointer to s. Convenience for building nullable fields.
func StrPtr(s string) *string { return &s }

// IntPtr returns a pointer to n.
func IntPtr(n int64) *int64 { return &n }

// BoolPtr returns a pointer to b.
func BoolPtr(b bool) *bool { return &b }
