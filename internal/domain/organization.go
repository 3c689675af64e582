package domain

// Quote is one organization's cash bid/ask for a single currency.
// The provider serializes both sides as decimal strings and either side
// may be empty when the organization trades only one direction.
type Quote struct {
	Bid string `json:"bid"`
	Ask string `json:"ask"`
}

// HasRate reports whether at least one side of the quote is present.
func (q Quote) HasRate() bool {
	return q.Bid != "" || q.Ask != ""
}

// Organization is a single exchange outlet from the provider payload.
// Display metadata is carried through unchanged; only ID and Currencies
// matter for aggregation.
type Organization struct {
	ID         string             `json:"id"`
	OldID      int                `json:"oldId"`
	OrgType    int                `json:"orgType"`
	Branch     bool               `json:"branch"`
	Title      string             `json:"title"`
	RegionID   string             `json:"regionId"`
	CityID     string             `json:"cityId"`
	Phone      string             `json:"phone"`
	Address    string             `json:"address"`
	Link       string             `json:"link"`
	Currencies map[Currency]Quote `json:"currencies"`
}

// QuoteFor returns the organization's quote for a currency, if it has one
// with at least one side filled in. Absence means the organization does
// not trade that currency.
func (o Organization) QuoteFor(c Currency) (Quote, bool) {
	q, ok := o.Currencies[c]
	if !ok || !q.HasRate() {
		return Quote{}, false
	}
	return q, true
}
