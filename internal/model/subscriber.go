package model

// Subscriber is a registered webhook endpoint that receives every status change.
type Subscriber struct {
	ID  int64  `json:"id,string"`
	URL string `json:"url"`
}
