package logic

// ADCToTempX10 maps a 12-bit ADC code linearly onto -40.0°C..+125.0°C in tenths.
// Rounds half up by adding half the divisor before dividing.
func ADCToTempX10(raw RawSample) TempX10 {
	adc := raw
	if adc > ADCMax {
		adc = ADCMax
	}

	numerator := int32(adc) * 1650
	scaled := (numerator + 2047) / 4095
	t := int32(TempMinX10) + scaled

	// Output clamp is part of the contract even though the input clamp keeps t in range.
	if t < int32(TempMinX10) {
		t = int32(TempMinX10)
	}
	if t > int32(TempMaxX10) {
		t = int32(TempMaxX10)
	}
	return TempX10(t)
}
