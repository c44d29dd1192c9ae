package domain

// BrandContext seeds keyword generation from what a brand sells and to whom.
// Both attributes are comma-delimited lists.
type BrandContext struct {
	// TargetCustomer lists customer segments (e.g. "Sales teams, Founders").
	TargetCustomer string `json:"target_customer"`

	// IntersectionTopics lists topics where the brand meets its audience.
	IntersectionTopics string `json:"intersection_topics"`
}

// Customers returns the trimmed customer segment terms.
func (b BrandContext) Customers() []string {
	return SplitTerms(b.TargetCustomer)
}

// Topics returns the trimmed intersection topic terms.
func (b BrandContext) Topics() []string {
	return SplitTerms(b.IntersectionTopics)
}

// IsEmpty reports whether neither attribute yields a term.
func (b BrandContext) IsEmpty() bool {
	return len(b.Customers()) == 0 && len(b.Topics()) == 0
}
