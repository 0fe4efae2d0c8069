package server

// SubmitOrderRequest is the POST /api/v1/orders payload. Price and
// quantity are decimal strings; they are parsed into exact decimals
// at this boundary and floats never reach the book.
type SubmitOrderRequest struct {
	OrderID   uint64 `json:"orderId"`
	Symbol    string `json:"symbol"`
	Price     string `json:"price"`
	Quantity  string `json:"quantity"`
	Side      string `json:"side"`
	Kind      string `json:"kind"`
	Timestamp int64  `json:"timestamp"`
}

// CancelOrderRequest is the POST /api/v1/orders/cancel payload. The
// caller supplies the order's resting price; a mismatched price means
// not found.
type CancelOrderRequest struct {
	OrderID uint64 `json:"orderId"`
	Symbol  string `json:"symbol"`
	Price   string `json:"price"`
	Side    string `json:"side"`
}

// CreateBookRequest registers a symbol. Sink selects where execution
// events go: "none", "feed", or any sender name wired at startup.
type CreateBookRequest struct {
	Symbol string `json:"symbol"`
	Sink   string `json:"sink"`
}

// DepthResponse reports aggregate resting order counts
type DepthResponse struct {
	Buy  int `json:"buy"`
	Sell int `json:"sell"`
}

// BookDepthResponse reports one symbol's per-level depth
type BookDepthResponse struct {
	Symbol string          `json:"symbol"`
	Bids   []LevelSnapshot `json:"bids"`
	Asks   []LevelSnapshot `json:"asks"`
}

// LevelSnapshot is one price level's aggregate view
type LevelSnapshot struct {
	Price  string `json:"price"`
	Orders int    `json:"orders"`
	Volume string `json:"volume"`
}

// ErrorResponse carries an error message
type ErrorResponse struct {
	Error string `json:"error"`
}
