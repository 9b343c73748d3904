package site

import "regexp"

// DNSPParticipant identifies one of the distribution network service providers whose NMI
// allocation ranges this validator recognises, per AEMO's NMI Allocation List.
type DNSPParticipant string

const (
	DNSPEvoEnergy                 DNSPParticipant = "ACTEWP"
	DNSPEssentialEnergy           DNSPParticipant = "CNRGYP"
	DNSPAusgrid                   DNSPParticipant = "ENERGYAP"
	DNSPEndeavourEnergy           DNSPParticipant = "INTEGP"
	DNSPEnergex                   DNSPParticipant = "ENERGEXP"
	DNSPErgonEnergy               DNSPParticipant = "ERGONETP"
	DNSPSAPN                      DNSPParticipant = "UMPLP"
	DNSPTasNetworks               DNSPParticipant = "AURORAP"
	DNSPCitiPower                 DNSPParticipant = "CITIPP"
	DNSPPowercor                  DNSPParticipant = "POWCP"
	DNSPJemena                    DNSPParticipant = "SOLARISP"
	DNSPAusnetServices            DNSPParticipant = "EASTERN"
	DNSPUnitedEnergy              DNSPParticipant = "UNITED"
	DNSPPowerAndWaterCorporation  DNSPParticipant = "PWCLNSP"
	DNSPWesternPower              DNSPParticipant = "WAAA"
	DNSPHorizonPower              DNSPParticipant = "8021"
)

// patternGroup is an AND of regexes that must all match for the group to match.
type patternGroup []*regexp.Regexp

func (g patternGroup) matches(target string) bool {
	for _, p := range g {
		if !p.MatchString(target) {
			return false
		}
	}
	return true
}

func anyGroupMatches(groups []patternGroup, target string) bool {
	if len(groups) == 0 {
		return true
	}
	for _, g := range groups {
		if g.matches(target) {
			return true
		}
	}
	return false
}

func rx(pattern string) *regexp.Regexp { return regexp.MustCompile(pattern) }

func pg(patterns ...string) patternGroup {
	g := make(patternGroup, len(patterns))
	for i, p := range patterns {
		g[i] = rx(p)
	}
	return g
}

// globalExcludes apply to every participant: no whitespace, and no 'O'/'I' (never assigned,
// to avoid confusion with 0/1).
var globalExcludes = []patternGroup{pg(`\s`), pg(`[OI]`)}

// dnspIncludeExclude holds the include/exclude pattern groups for one participant's NMI
// ranges, ported from nmi_validator.py's MultiPatternRegexValidator/DNSP_PATTERNS table
// (AEMO NMI Allocation List Version 13, November 2022).
type dnspIncludeExclude struct {
	includes []patternGroup
	excludes []patternGroup
}

var dnspPatterns = map[DNSPParticipant]dnspIncludeExclude{
	DNSPEvoEnergy: {
		includes: []patternGroup{pg(`^NGGG[0-9A-Z]{6}$`), pg(`^7001\d{6}$`)},
		excludes: []patternGroup{pg(`^.{4}W`)},
	},
	DNSPEssentialEnergy: {
		includes: []patternGroup{
			pg(`^NAAA[0-9A-Z]{6}$`), pg(`^NBBB[0-9A-Z]{6}$`), pg(`^NEEE[0-9A-Z]{6}$`),
			pg(`^NFFF[0-9A-Z]{6}$`), pg(`^4001\d{6}$`), pg(`^45080\d{5}$`),
			pg(`^4204\d{6}$`), pg(`^4407\d{6}`),
		},
		excludes: []patternGroup{pg(`^.{4}W`)},
	},
	DNSPAusgrid: {
		includes: []patternGroup{pg(`^NCCC[0-9A-Z]{6}$`), pg(`^410[2-4][0-9A-Z]{6}$`)},
		excludes: []patternGroup{pg(`^.{4}W`)},
	},
	DNSPEndeavourEnergy: {
		includes: []patternGroup{pg(`^NDDD[0-9A-Z]{6}$`), pg(`^431\d{7}`)},
		excludes: []patternGroup{pg(`^.{4}W`)},
	},
	DNSPPowerAndWaterCorporation: {
		includes: []patternGroup{pg(`^250\d{7}$`)},
	},
	DNSPErgonEnergy: {
		includes: []patternGroup{
			pg(`^QAAA[0-9A-Z]{6}$`), pg(`^QCCC[0-9A-Z]{6}$`), pg(`^QDDD[0-9A-Z]{6}$`),
			pg(`^QEEE[0-9A-Z]{6}$`), pg(`^QFFF[0-9A-Z]{6}$`), pg(`^QGGG[0-9A-Z]{6}$`),
			pg(`^30\d{8}$`),
		},
		excludes: []patternGroup{pg(`^.{4}W`)},
	},
	DNSPEnergex: {
		includes: []patternGroup{pg(`^QB\d{2}[0-9A-Z]{6}$`), pg(`^31\d{8}$`)},
		excludes: []patternGroup{pg(`^.{4}W`)},
	},
	DNSPSAPN: {
		includes: []patternGroup{pg(`^SAAA[0-9A-Z]{6}$`), pg(`^SASMPL\d{4}$`), pg(`^200[1-2]\d{6}$`)},
		excludes: []patternGroup{pg(`^.{4}W`)},
	},
	DNSPTasNetworks: {
		includes: []patternGroup{pg(`^T\d{9}$`)},
	},
	DNSPCitiPower: {
		includes: []patternGroup{pg(`^VAAA[0-9A-Z]{6}$`), pg(`^610[2-3]\d{6}$`)},
		excludes: []patternGroup{pg(`^.{4}W`)},
	},
	DNSPAusnetServices: {
		includes: []patternGroup{pg(`^VBBB[0-9A-Z]{6}$`), pg(`^630[5-6]\d{6}$`)},
		excludes: []patternGroup{pg(`^.{4}W`)},
	},
	DNSPPowercor: {
		includes: []patternGroup{pg(`^VCCC[0-9A-Z]{6}$`), pg(`^620[3-4]\d{6}$`)},
		excludes: []patternGroup{pg(`^.{4}W`)},
	},
	DNSPJemena: {
		includes: []patternGroup{pg(`^VDDD[0-9A-Z]{6}$`), pg(`^6001\d{6}$`)},
		excludes: []patternGroup{pg(`^.{4}W`)},
	},
	DNSPUnitedEnergy: {
		includes: []patternGroup{pg(`^VEEE[0-9A-Z]{6}$`), pg(`^640[7-8]\d{6}$`)},
		excludes: []patternGroup{pg(`^.{4}W`)},
	},
	DNSPWesternPower: {
		includes: []patternGroup{pg(`^WAAA[0-9A-Z]{6}$`), pg(`^8001\d{6}$`), pg(`^8020\d{6}$`)},
		excludes: []patternGroup{pg(`^.{4}W`)},
	},
	DNSPHorizonPower: {
		includes: []patternGroup{pg(`^8021\d{6}$`)},
	},
}

// nmiShape is a structural sanity check: 11 characters, no whitespace, and excluding the
// letters O and I (which AEMO's NMI Allocation List never assigns, to avoid confusion with
// 0 and 1).
var nmiShape = regexp.MustCompile(`^[0-9A-HJ-NP-Za-hj-np-z]{11}$`)

// ValidNMIShape reports whether nmi has the structural shape of a National Metering
// Identifier (11 characters, no 'O'/'I'). It does not validate the DNSP-specific pattern
// or the trailing Luhn-10 checksum digit.
func ValidNMIShape(nmi string) bool {
	return nmiShape.MatchString(nmi)
}

// ValidNMIForParticipant reports whether nmi matches the first 10 characters against the
// named DNSP's published NMI allocation ranges. It does NOT validate the trailing checksum
// character (digit [11]) beyond requiring it be a digit: re-deriving the Luhn-10 checksum
// described in AEMO's National Metering Identifier Procedure V5.1, Appendix 2, is an
// explicit non-goal here - a full validator would need to replicate
// NmiValidator._luhn_10_using_ascii_codes from the system this was ported from.
func ValidNMIForParticipant(participant DNSPParticipant, nmi string) bool {
	if len(nmi) != 11 {
		return false
	}
	if nmi[10] < '0' || nmi[10] > '9' {
		return false
	}
	cfg, ok := dnspPatterns[participant]
	if !ok {
		return false
	}
	body := nmi[:10]
	if !anyGroupMatches(cfg.includes, body) {
		return false
	}
	for _, g := range append(append([]patternGroup{}, cfg.excludes...), globalExcludes...) {
		if g.matches(body) {
			return false
		}
	}
	return true
}
