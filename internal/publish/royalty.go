package publish

// RoyaltyQuote breaks a list price down into the author and platform shares
// shown on the upload form.
type RoyaltyQuote struct {
	Price         float64
	AuthorShare   float64
	PlatformShare float64
	ProcessingFee float64
	NetEarnings   float64
}

// QuoteRoyalty computes the split for a list price: 70% to the author, 30%
// to the platform, with a 2.9% + $0.30 payment processing fee deducted from
// the author's share.
func QuoteRoyalty(price float64) RoyaltyQuote {
	authorShare := price * 0.70
	processingFee := price*0.029 + 0.30
	return RoyaltyQuote{
		Price:         price,
		AuthorShare:   authorShare,
		PlatformShare: price * 0.30,
		ProcessingFee: processingFee,
		NetEarnings:   authorShare - processingFee,
	}
}
