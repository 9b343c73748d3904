package mrid

import (
	"math/big"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fixedScope uint64

func (s fixedScope) IanaPen() uint64 { return uint64(s) }

func TestEncodeMRID_RoundTrip(t *testing.T) {
	cases := []struct {
		name    string
		mt      MridType
		id      *big.Int
		ianaPen uint64
	}{
		{"zero", DefaultDOE, big.NewInt(0), 0},
		{"max", ResponseSet, new(big.Int).Set(MaxMridID), MaxIanaPen.Uint64()},
		{"doe id 42", DynamicOperatingEnvelope, big.NewInt(42), 37244},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			encoded, err := EncodeMRID(tc.mt, tc.id, tc.ianaPen)
			require.NoError(t, err)
			assert.Len(t, encoded, 32)

			gotType, err := DecodeMridType(encoded)
			require.NoError(t, err)
			assert.Equal(t, tc.mt, gotType)

			gotID, err := DecodeMridID(encoded)
			require.NoError(t, err)
			assert.Equal(t, 0, tc.id.Cmp(gotID))

			gotPen, err := DecodeIanaPen(encoded)
			require.NoError(t, err)
			assert.Equal(t, tc.ianaPen, gotPen)
		})
	}
}

func TestEncodeMRID_RejectsOutOfRange(t *testing.T) {
	_, err := EncodeMRID(DefaultDOE, new(big.Int).Add(MaxMridID, big.NewInt(1)), 0)
	assert.Error(t, err)

	_, err = EncodeMRID(DefaultDOE, big.NewInt(0), new(big.Int).Add(MaxIanaPen, big.NewInt(1)).Uint64()+1)
	assert.Error(t, err)
}

func TestDecodeAndValidateMridType_RejectsPenMismatch(t *testing.T) {
	encoded, err := EncodeDefaultDOEMRID(fixedScope(99))
	require.NoError(t, err)

	_, err = DecodeAndValidateMridType(fixedScope(100), encoded)
	assert.Error(t, err)

	gotType, err := DecodeAndValidateMridType(fixedScope(99), encoded)
	require.NoError(t, err)
	assert.Equal(t, DefaultDOE, gotType)
}

func TestEncodeDefaultDOEMRID(t *testing.T) {
	encoded, err := EncodeDefaultDOEMRID(fixedScope(37244))
	require.NoError(t, err)

	id, err := DecodeMridID(encoded)
	require.NoError(t, err)
	assert.Equal(t, DefaultDOEID.String(), id.String())
}

func TestEncodeDOEProgramMRID_HighBitsSet(t *testing.T) {
	encoded, err := EncodeDOEProgramMRID(fixedScope(1), 7)
	require.NoError(t, err)

	mt, err := DecodeMridType(encoded)
	require.NoError(t, err)
	assert.Equal(t, DERProgram, mt)

	id, err := DecodeMridID(encoded)
	require.NoError(t, err)
	assert.Equal(t, uint64(7), new(big.Int).And(id, new(big.Int).SetUint64(MaxInt32)).Uint64())
	assert.Equal(t, 0xd0e, int(new(big.Int).Rsh(id, 80).Uint64()))
}

func TestEncodeFunctionSetAssignmentMRID(t *testing.T) {
	encoded, err := EncodeFunctionSetAssignmentMRID(fixedScope(5), 10, 20)
	require.NoError(t, err)

	id, err := DecodeMridID(encoded)
	require.NoError(t, err)
	assert.Equal(t, uint64(10), new(big.Int).Rsh(id, 32).Uint64())
	assert.Equal(t, uint64(20), new(big.Int).And(id, new(big.Int).SetUint64(MaxInt32)).Uint64())
}

func TestEncodeRateComponentMRID_RejectsInvalidPRT(t *testing.T) {
	_, err := EncodeRateComponentMRID(fixedScope(1), 5, 7, time.Now(), PricingReadingType(0))
	assert.Error(t, err)

	_, err = EncodeRateComponentMRID(fixedScope(1), 5, 7, time.Now(), PricingReadingType(5))
	assert.Error(t, err)
}

func TestEncodeRateComponentMRID_PacksTuple(t *testing.T) {
	ts := RateComponentEpoch.Add(90 * time.Minute)
	encoded, err := EncodeRateComponentMRID(fixedScope(1), 5, 7, ts, ExportActiveKWh)
	require.NoError(t, err)

	id, err := DecodeMridID(encoded)
	require.NoError(t, err)

	minutes := new(big.Int).And(id, new(big.Int).SetUint64(MaxInt26)).Uint64()
	assert.Equal(t, uint64(90), minutes)

	prtIdx := new(big.Int).And(new(big.Int).Rsh(id, 26), big.NewInt(0b11)).Uint64()
	assert.Equal(t, uint64(1), prtIdx) // ExportActiveKWh - 1

	siteID := new(big.Int).And(new(big.Int).Rsh(id, 28), new(big.Int).SetUint64(MaxInt32)).Uint64()
	assert.Equal(t, uint64(7), siteID)

	tariffID := new(big.Int).Rsh(id, 60).Uint64()
	assert.Equal(t, uint64(5), tariffID)
}

func TestEncodeTimeTariffIntervalMRID_RoundTrip(t *testing.T) {
	encoded, err := EncodeTimeTariffIntervalMRID(fixedScope(1), 123456789, ImportReactiveKVArh)
	require.NoError(t, err)

	prt, rateID, err := DecodeTimeTariffIntervalMRID(encoded)
	require.NoError(t, err)
	assert.Equal(t, ImportReactiveKVArh, prt)
	assert.Equal(t, uint64(123456789), rateID)
}

func TestDecodeMridType_RejectsBadLength(t *testing.T) {
	_, err := DecodeMridType("abc")
	assert.Error(t, err)

	_, err = DecodeMridID("abc")
	assert.Error(t, err)

	_, err = DecodeIanaPen("abc")
	assert.Error(t, err)
}
