package domain

import (
	"strings"
	"unicode"

	dErrors "wardaudit/pkg/domain-errors"
)

// Geographic codes are distinct types so a ward code can never be passed where a
// municipality code is expected.
type (
	WardCode           string
	VotingDistrictCode string
	MunicipalityCode   string
	DistrictCode       string
	ProvinceCode       string
)

const maxCodeLength = 32

func (c WardCode) String() string           { return string(c) }
func (c VotingDistrictCode) String() string { return string(c) }
func (c MunicipalityCode) String() string   { return string(c) }
func (c DistrictCode) String() string       { return string(c) }
func (c ProvinceCode) String() string       { return string(c) }

// ParseWardCode validates a ward code at a trust boundary.
func ParseWardCode(s string) (WardCode, error) {
	v, err := parseCode("ward code", s)
	return WardCode(v), err
}

// ParseMunicipalityCode validates a municipality code at a trust boundary.
func ParseMunicipalityCode(s string) (MunicipalityCode, error) {
	v, err := parseCode("municipality code", s)
	return MunicipalityCode(v), err
}

// ParseProvinceCode validates a province code at a trust boundary.
func ParseProvinceCode(s string) (ProvinceCode, error) {
	v, err := parseCode("province code", s)
	return ProvinceCode(strings.ToUpper(v)), err
}

// Codes are alphanumeric (SA demarcation codes such as 79700001, JHB, EC101).
func parseCode(kind, s string) (string, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return "", dErrors.New(dErrors.CodeInvalidInput, kind+" is required")
	}
	if len(s) > maxCodeLength {
		return "", dErrors.New(dErrors.CodeInvalidInput, kind+" is too long")
	}
	for _, r := range s {
		if r > unicode.MaxASCII || !(unicode.IsLetter(r) || unicode.IsDigit(r)) {
			return "", dErrors.New(dErrors.CodeInvalidInput, kind+" must be alphanumeric")
		}
	}
	return s, nil
}
