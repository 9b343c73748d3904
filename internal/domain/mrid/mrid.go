// Package mrid encodes and decodes the 128-bit MRID identifiers used throughout the 2030.5
// resource model. An MRID is rendered as exactly 32 lowercase hex characters: a 4-bit
// mrid_type in the high nibble, a 92-bit resource-specific id, and a 32-bit IANA PEN in the
// low bits. The 92-bit id field does not fit in a uint64, so it is carried as a *big.Int
// everywhere it is assembled or decoded.
package mrid

import (
	"fmt"
	"math/big"
	"strings"
	"time"
)

// MridType identifies which resource kind an MRID's id component was packed for.
type MridType uint8

const (
	DefaultDOE MridType = iota
	DERProgram
	DynamicOperatingEnvelope
	FunctionSetAssignment
	MirrorUsagePoint
	MirrorMeterReading
	Tariff
	RateComponent
	TimeTariffInterval
	ResponseSet
)

func (t MridType) String() string {
	switch t {
	case DefaultDOE:
		return "DEFAULT_DOE"
	case DERProgram:
		return "DER_PROGRAM"
	case DynamicOperatingEnvelope:
		return "DYNAMIC_OPERATING_ENVELOPE"
	case FunctionSetAssignment:
		return "FUNCTION_SET_ASSIGNMENT"
	case MirrorUsagePoint:
		return "MIRROR_USAGE_POINT"
	case MirrorMeterReading:
		return "MIRROR_METER_READING"
	case Tariff:
		return "TARIFF"
	case RateComponent:
		return "RATE_COMPONENT"
	case TimeTariffInterval:
		return "TIME_TARIFF_INTERVAL"
	case ResponseSet:
		return "RESPONSE_SET"
	default:
		return fmt.Sprintf("MridType(%d)", uint8(t))
	}
}

// PricingReadingType enumerates the four meter-reading flavours a rate component can carry.
// Values start at 1 to match the spec's `(prt-1)` bit-packing convention.
type PricingReadingType uint8

const (
	ImportActiveKWh     PricingReadingType = 1
	ExportActiveKWh     PricingReadingType = 2
	ImportReactiveKVArh PricingReadingType = 3
	ExportReactiveKVArh PricingReadingType = 4
)

// ResponseSetType identifies which canned DER/DRLC/etc response set an mrid addresses.
type ResponseSetType uint32

// Bit widths of the three mrid fields.
const (
	mridTypeBits = 4
	mridIDBits   = 92
	ianaPenBits  = 32
)

const maxMridType uint8 = (1 << mridTypeBits) - 1

// MaxIanaPen, MaxMridID and MaxInt* are the inclusive upper bounds for the corresponding
// unsigned fields.
var (
	MaxIanaPen = new(big.Int).Sub(new(big.Int).Lsh(big.NewInt(1), ianaPenBits), big.NewInt(1))
	MaxMridID  = new(big.Int).Sub(new(big.Int).Lsh(big.NewInt(1), mridIDBits), big.NewInt(1))
)

const (
	MaxInt26 uint64 = (1 << 26) - 1
	MaxInt32 uint64 = (1 << 32) - 1
	MaxInt64 uint64 = ^uint64(0)
)

// DefaultDOEID is the literal id packed for the synthetic "default DOE" resource.
var DefaultDOEID = big.NewInt(0xdefa017)

// derProgramPrefixDOE sets the high 12 bits of a DER_PROGRAM id to 0xd0e, leaving the low
// 32 bits free for a site_id.
var derProgramPrefixDOE = new(big.Int).Lsh(big.NewInt(0xd0e), mridIDBits-12)

// RateComponentEpoch is the zero point for the minutes-since-epoch field packed into a
// RATE_COMPONENT mrid.
var RateComponentEpoch = time.Date(2000, time.January, 1, 0, 0, 0, 0, time.UTC)

// EncodeMRID packs mridType, id and ianaPen into the canonical 32-character lowercase hex
// MRID string. Returns an error if any field exceeds its bit width.
func EncodeMRID(mridType MridType, id *big.Int, ianaPen uint64) (string, error) {
	ianaPenBig := new(big.Int).SetUint64(ianaPen)
	if ianaPenBig.Sign() < 0 || ianaPenBig.Cmp(MaxIanaPen) > 0 {
		return "", fmt.Errorf("iana_pen %d is not in the range 0 -> %s", ianaPen, MaxIanaPen)
	}
	if id.Sign() < 0 || id.Cmp(MaxMridID) > 0 {
		return "", fmt.Errorf("id %s is not in the range 0 -> %s", id, MaxMridID)
	}
	if uint8(mridType) > maxMridType {
		return "", fmt.Errorf("mrid_type %d is not in the range 0 -> %d", uint8(mridType), maxMridType)
	}

	return fmt.Sprintf("%x%023x%08x", uint8(mridType), id, ianaPen), nil
}

// DecodeMridType decodes the highest 4 bits of an encoded MRID back into a MridType.
func DecodeMridType(mrid string) (MridType, error) {
	if len(mrid) != 32 {
		return 0, fmt.Errorf("expected a mrid of 32 hex characters, got %q", mrid)
	}
	v, ok := new(big.Int).SetString(mrid[0:1], 16)
	if !ok {
		return 0, fmt.Errorf("invalid mrid_type nibble in %q", mrid)
	}
	return MridType(v.Uint64()), nil
}

// DecodeMridID decodes the middle 92 bits of an encoded MRID.
func DecodeMridID(mrid string) (*big.Int, error) {
	if len(mrid) != 32 {
		return nil, fmt.Errorf("expected a mrid of 32 hex characters, got %q", mrid)
	}
	v, ok := new(big.Int).SetString(mrid[1:24], 16)
	if !ok {
		return nil, fmt.Errorf("invalid id field in %q", mrid)
	}
	return v, nil
}

// DecodeIanaPen decodes the lowest 32 bits of an encoded MRID.
func DecodeIanaPen(mrid string) (uint64, error) {
	if len(mrid) != 32 {
		return 0, fmt.Errorf("expected a mrid of 32 hex characters, got %q", mrid)
	}
	v, ok := new(big.Int).SetString(mrid[24:], 16)
	if !ok {
		return 0, fmt.Errorf("invalid iana_pen field in %q", mrid)
	}
	return v.Uint64(), nil
}

// IanaPenScope is the minimal view of a request scope the mrid codec needs: the deployment's
// IANA Private Enterprise Number. Kept narrow so this package has no dependency on the scope
// package (scope never needs to import back into mrid either).
type IanaPenScope interface {
	IanaPen() uint64
}

// EncodeDefaultDOEMRID encodes the singleton "default DOE" resource.
func EncodeDefaultDOEMRID(scope IanaPenScope) (string, error) {
	return EncodeMRID(DefaultDOE, DefaultDOEID, scope.IanaPen())
}

// EncodeDOEProgramMRID encodes a DER_PROGRAM mrid scoped to siteID.
func EncodeDOEProgramMRID(scope IanaPenScope, siteID uint64) (string, error) {
	id := new(big.Int).Or(derProgramPrefixDOE, new(big.Int).SetUint64(siteID&MaxInt32))
	return EncodeMRID(DERProgram, id, scope.IanaPen())
}

// EncodeDOEMRID encodes a specific DynamicOperatingEnvelope by its primary key.
func EncodeDOEMRID(scope IanaPenScope, doeID uint64) (string, error) {
	id := new(big.Int).SetUint64(doeID & MaxInt64)
	return EncodeMRID(DynamicOperatingEnvelope, id, scope.IanaPen())
}

// EncodeFunctionSetAssignmentMRID packs (site_id << 32) | fsa_id.
func EncodeFunctionSetAssignmentMRID(scope IanaPenScope, siteID, fsaID uint64) (string, error) {
	id := new(big.Int).Lsh(new(big.Int).SetUint64(siteID&MaxInt32), 32)
	id.Or(id, new(big.Int).SetUint64(fsaID&MaxInt32))
	return EncodeMRID(FunctionSetAssignment, id, scope.IanaPen())
}

// EncodeMirrorUsagePointMRID encodes a MirrorUsagePoint keyed by its SiteReadingType id.
func EncodeMirrorUsagePointMRID(scope IanaPenScope, siteReadingTypeID uint64) (string, error) {
	id := new(big.Int).SetUint64(siteReadingTypeID & MaxInt32)
	return EncodeMRID(MirrorUsagePoint, id, scope.IanaPen())
}

// EncodeMirrorMeterReadingMRID encodes a MirrorMeterReading keyed by its SiteReadingType id.
func EncodeMirrorMeterReadingMRID(scope IanaPenScope, siteReadingTypeID uint64) (string, error) {
	id := new(big.Int).SetUint64(siteReadingTypeID & MaxInt32)
	return EncodeMRID(MirrorMeterReading, id, scope.IanaPen())
}

// EncodeTariffProfileMRID encodes a TariffProfile keyed by its Tariff id.
func EncodeTariffProfileMRID(scope IanaPenScope, tariffID uint64) (string, error) {
	id := new(big.Int).SetUint64(tariffID & MaxInt32)
	return EncodeMRID(Tariff, id, scope.IanaPen())
}

func prtIndex(prt PricingReadingType) (uint64, error) {
	prtInt := int64(prt) - 1
	if prtInt < 0 || prtInt >= 4 {
		return 0, fmt.Errorf("invalid PricingReadingType value of %d, expected a value in range [1, 4]", prt)
	}
	return uint64(prtInt), nil
}

// EncodeRateComponentMRID encodes a virtual RateComponent. RateComponents have no primary key
// of their own, so the id is derived from the tuple that identifies them:
// tariff_id(32) << 60 | site_id(32) << 28 | (prt-1)(2) << 26 | minutes_since_2000UTC(26).
func EncodeRateComponentMRID(scope IanaPenScope, tariffID, siteID uint64, startTimestamp time.Time, prt PricingReadingType) (string, error) {
	prtIdx, err := prtIndex(prt)
	if err != nil {
		return "", err
	}

	// Minutes since epoch, modulo the 26-bit space first so timestamps before the epoch
	// also roll over cleanly instead of producing a negative shift.
	totalMinutes := int64(startTimestamp.UTC().Sub(RateComponentEpoch).Seconds()) / 60
	modulus := int64(MaxInt26) + 1
	clamped := ((totalMinutes % modulus) + modulus) % modulus
	timestampShifted := uint64(clamped) & MaxInt26

	id := new(big.Int).Lsh(new(big.Int).SetUint64(tariffID), 60)
	id.Or(id, new(big.Int).Lsh(new(big.Int).SetUint64(siteID), 28))
	id.Or(id, new(big.Int).Lsh(new(big.Int).SetUint64(prtIdx), 26))
	id.Or(id, new(big.Int).SetUint64(timestampShifted))

	return EncodeMRID(RateComponent, id, scope.IanaPen())
}

// EncodeTimeTariffIntervalMRID packs (prt-1)(2) << 90 | tariff_generated_rate_id(64).
func EncodeTimeTariffIntervalMRID(scope IanaPenScope, tariffGeneratedRateID uint64, prt PricingReadingType) (string, error) {
	prtIdx, err := prtIndex(prt)
	if err != nil {
		return "", err
	}
	id := new(big.Int).Lsh(new(big.Int).SetUint64(prtIdx), 90)
	id.Or(id, new(big.Int).SetUint64(tariffGeneratedRateID&MaxInt64))
	return EncodeMRID(TimeTariffInterval, id, scope.IanaPen())
}

// EncodeResponseSetMRID encodes a canned response set.
func EncodeResponseSetMRID(scope IanaPenScope, responseSetType ResponseSetType) (string, error) {
	id := new(big.Int).SetUint64(uint64(responseSetType) & MaxInt32)
	return EncodeMRID(ResponseSet, id, scope.IanaPen())
}

// DecodeAndValidateMridType decodes mrid's type after confirming it was encoded for this
// deployment's IANA PEN. Rejecting a PEN mismatch prevents MRIDs minted by a different
// deployment of this server from being accepted here.
func DecodeAndValidateMridType(scope IanaPenScope, mrid string) (MridType, error) {
	mrid = strings.ToLower(mrid)
	if mrid == "" || len(mrid) != 32 {
		return 0, fmt.Errorf("expected mrid to have 32 hex characters")
	}

	decodedIanaPen, err := DecodeIanaPen(mrid)
	if err != nil {
		return 0, err
	}
	if decodedIanaPen != scope.IanaPen() {
		return 0, fmt.Errorf("mrid was encoded for IANA PEN %d which doesn't match this server %d", decodedIanaPen, scope.IanaPen())
	}

	return DecodeMridType(mrid)
}

// DecodeDOEMRID decodes the DynamicOperatingEnvelope id packed into mrid. Callers must have
// already confirmed mrid's type is DynamicOperatingEnvelope; no validation of that happens here.
func DecodeDOEMRID(mrid string) (uint64, error) {
	mrid = strings.ToLower(mrid)
	if mrid == "" || len(mrid) != 32 {
		return 0, fmt.Errorf("expected mrid to have 32 hex characters")
	}
	id, err := DecodeMridID(mrid)
	if err != nil {
		return 0, err
	}
	return id.Uint64(), nil
}

// DecodeMirrorUsagePointMRID decodes the SiteReadingType id packed into mrid. Callers must
// have already confirmed mrid's type is MirrorUsagePoint.
func DecodeMirrorUsagePointMRID(mrid string) (uint64, error) {
	mrid = strings.ToLower(mrid)
	if mrid == "" || len(mrid) != 32 {
		return 0, fmt.Errorf("expected mrid to have 32 hex characters")
	}
	id, err := DecodeMridID(mrid)
	if err != nil {
		return 0, err
	}
	return id.Uint64(), nil
}

// DecodeTimeTariffIntervalMRID decodes both the PricingReadingType and the
// TariffGeneratedRate id packed into mrid. Callers must have already confirmed mrid's type is
// TimeTariffInterval.
func DecodeTimeTariffIntervalMRID(mrid string) (PricingReadingType, uint64, error) {
	mrid = strings.ToLower(mrid)
	if mrid == "" || len(mrid) != 32 {
		return 0, 0, fmt.Errorf("expected mrid to have 32 hex characters")
	}

	id, err := DecodeMridID(mrid)
	if err != nil {
		return 0, 0, err
	}

	prtIdx := new(big.Int).Rsh(id, 90)
	prt := PricingReadingType(prtIdx.Uint64() + 1)

	rateID := new(big.Int).And(id, new(big.Int).SetUint64(MaxInt64))
	return prt, rateID.Uint64(), nil
}
