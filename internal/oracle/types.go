package oracle

// RequestRandomWordsInput contains parameters for a randomness request
type RequestRandomWordsInput struct {
	// KeyHash selects the provider's gas-price tier / proof scheme
	KeyHash string

	// SubscriptionID is the billing account funding the request
	SubscriptionID uint64

	// RequestConfirmations is how many confirmations the provider waits
	// for before fulfilling
	RequestConfirmations uint16

	// CallbackGasLimit is the resource budget for the fulfillment callback
	CallbackGasLimit uint32

	// NumWords is how many random words to deliver
	NumWords uint32
}

// RequestRandomWordsOutput contains the result of a randomness request
type RequestRandomWordsOutput struct {
	// RequestID is the provider-assigned identifier for the request
	RequestID uint64
}
