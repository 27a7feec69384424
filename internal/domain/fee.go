package domain

// PlatformFee returns the platform fee in cents for a payout at the given
// basis-point rate, rounding half-up on the fractional cent. The fee is
// charged on top of the payout; the worker always receives the full payout.
func PlatformFee(payoutCents int64, feeBps int) int64 {
	return (payoutCents*int64(feeBps) + 5000) / 10000
}

// TotalCharge returns the amount billed to the creator: payout plus fee.
func TotalCharge(payoutCents int64, feeBps int) int64 {
	return payoutCents + PlatformFee(payoutCents, feeBps)
}
