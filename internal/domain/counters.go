package domain

// Counters is the render input of the landing page. It is produced once per
// page render and never mutated afterwards.
type Counters struct {
	Pools   int `json:"poolCount"`
	Guesses int `json:"guessCount"`
	Users   int `json:"userCount"`
}

// CountResponse is the body returned by every counting endpoint.
type CountResponse struct {
	Count int `json:"count"`
}
