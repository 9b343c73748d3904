package sep2

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"sep2utility/internal/domain/tariff"
	"sep2utility/internal/interfaces/dto"
)

func paramUint32(c *gin.Context, name string) (uint32, error) {
	v, err := strconv.ParseUint(c.Param(name), 10, 32)
	if err != nil {
		return 0, fmt.Errorf("invalid %s", name)
	}
	return uint32(v), nil
}

func paramUint64(c *gin.Context, name string) (uint64, error) {
	v, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid %s", name)
	}
	return v, nil
}

func paramInt64(c *gin.Context, name string) (int64, error) {
	v, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid %s", name)
	}
	return v, nil
}

// listQueryFromRequest parses the s=/a=/l= list-form query parameters spec.md §6.1 defines,
// taking only the first value of each for historical client compatibility.
func listQueryFromRequest(c *gin.Context) dto.ListQuery {
	q := dto.ListQuery{Limit: dto.DefaultListLimit}
	if vs := c.QueryArray("s"); len(vs) > 0 {
		if v, err := strconv.ParseInt(vs[0], 10, 64); err == nil {
			q.Start = v
		}
	}
	if vs := c.QueryArray("a"); len(vs) > 0 {
		if v, err := strconv.ParseInt(vs[0], 10, 64); err == nil {
			q.After = v
		}
	}
	if vs := c.QueryArray("l"); len(vs) > 0 {
		if v, err := strconv.ParseInt(vs[0], 10, 64); err == nil {
			q.Limit = v
		}
	}
	return q
}

// parseGroupRef decodes a DERProgram href segment back into a site-control-group id: the
// literal "doe" alias (group 1) or a bare integer post-multi-group, the inverse of
// dto.DOEGroupRef.
func parseGroupRef(ref string) (uint32, error) {
	if ref == "doe" {
		return 1, nil
	}
	v, err := strconv.ParseUint(ref, 10, 32)
	if err != nil {
		return 0, fmt.Errorf("invalid derp_id %q", ref)
	}
	return uint32(v), nil
}

// parseDayParam parses a YYYY-MM-DD href segment (dto.DayKey's format) as a UTC midnight.
func parseDayParam(s string) (time.Time, error) {
	return time.Parse("2006-01-02", s)
}

// parseTimeOfDayParam parses an HH:MM href segment (dto.TimeOfDayKey's format) into the
// duration since local midnight.
func parseTimeOfDayParam(s string) (time.Duration, error) {
	parts := strings.SplitN(s, ":", 2)
	if len(parts) != 2 {
		return 0, fmt.Errorf("invalid time-of-day %q", s)
	}
	h, err1 := strconv.Atoi(parts[0])
	m, err2 := strconv.Atoi(parts[1])
	if err1 != nil || err2 != nil || h < 0 || h > 23 || m < 0 || m > 59 {
		return 0, fmt.Errorf("invalid time-of-day %q", s)
	}
	return time.Duration(h)*time.Hour + time.Duration(m)*time.Minute, nil
}

// parsePRTParam parses a pricing-reading-type href segment into its enum value.
func parsePRTParam(s string) (tariff.PricingReadingType, error) {
	v, err := strconv.ParseUint(s, 10, 32)
	if err != nil {
		return 0, fmt.Errorf("invalid prt %q", s)
	}
	prt := tariff.PricingReadingType(v)
	for _, valid := range tariff.PricingReadingTypes {
		if valid == prt {
			return prt, nil
		}
	}
	return 0, fmt.Errorf("unrecognised prt %q", s)
}

// bindXML decodes the request body into v, the shared entry point every mutating handler
// uses before translating into a use-case command.
func bindXML(c *gin.Context, v any) error {
	return c.ShouldBindXML(v)
}
