package mathutil

import "errors"

// OneMillion is the scale of fee rates expressed in parts per million.
const OneMillion = uint64(1_000_000)

// ErrFeeOutOfRange is thrown when a fee rate is not lower than one million ppm
var ErrFeeOutOfRange = errors.New("fee must be lower than 1000000 ppm")

// PlusFee returns the amount a payer must provide so that, after deducting
// the given ppm fee, the receiver nets the given amount. The gross amount is
// rounded up so the fee taker never collects less than the exact fee share.
func PlusFee(amount uint64, feePPM uint32) (withFee, calculatedFee uint64, err error) {
	if uint64(feePPM) >= OneMillion {
		return 0, 0, ErrFeeOutOfRange
	}
	gross, err := MulDivCeil(
		BigUint(amount), BigUint(OneMillion), BigUint(OneMillion-uint64(feePPM)),
	)
	if err != nil {
		return 0, 0, err
	}
	withFee, err = Uint64(gross)
	if err != nil {
		return 0, 0, err
	}
	return withFee, withFee - amount, nil
}

// LessFee returns the amount left after deducting the given ppm fee from the
// given amount. The net amount is rounded down so the fee taker never
// collects less than the exact fee share.
func LessFee(amount uint64, feePPM uint32) (withoutFee, calculatedFee uint64, err error) {
	if uint64(feePPM) >= OneMillion {
		return 0, 0, ErrFeeOutOfRange
	}
	net, err := MulDivFloor(
		BigUint(amount), BigUint(OneMillion-uint64(feePPM)), BigUint(OneMillion),
	)
	if err != nil {
		return 0, 0, err
	}
	withoutFee, err = Uint64(net)
	if err != nil {
		return 0, 0, err
	}
	return withoutFee, amount - withoutFee, nil
}
