package aggregator

import (
	"context"
	"fmt"
	"strings"
	"time"

	"gorm.io/gorm"

	"sep2utility/internal/domain/archive"
)

// DomainAllowlist returns every FQDN aggregatorID has whitelisted for notification callbacks.
func DomainAllowlist(ctx context.Context, db *gorm.DB, aggregatorID uint32) ([]string, error) {
	var domains []AggregatorDomain
	if err := db.WithContext(ctx).Where("aggregator_id = ?", aggregatorID).Find(&domains).Error; err != nil {
		return nil, fmt.Errorf("failed to fetch aggregator domains: %w", err)
	}

	hosts := make([]string, len(domains))
	for i, d := range domains {
		hosts[i] = d.Domain
	}
	return hosts, nil
}

// IsHostAllowed reports whether host is in aggregatorID's FQDN allowlist. Comparison is
// case-insensitive, matching DNS hostname semantics.
func IsHostAllowed(ctx context.Context, db *gorm.DB, aggregatorID uint32, host string) (bool, error) {
	hosts, err := DomainAllowlist(ctx, db, aggregatorID)
	if err != nil {
		return false, err
	}
	for _, h := range hosts {
		if strings.EqualFold(h, host) {
			return true, nil
		}
	}
	return false, nil
}

// CertificateByLFDI looks up a certificate by its LFDI. Returns gorm.ErrRecordNotFound if
// absent.
func CertificateByLFDI(ctx context.Context, db *gorm.DB, lfdi string) (*Certificate, error) {
	var cert Certificate
	if err := db.WithContext(ctx).Where("lfdi = ?", lfdi).First(&cert).Error; err != nil {
		return nil, err
	}
	return &cert, nil
}

// AggregatorIDsForCertificate returns every aggregator the certificate identified by lfdi is
// assigned to, provided that certificate hasn't expired as of now. An expired or unknown
// certificate yields an empty (not erroring) result - callers should treat that as
// unauthenticated.
func AggregatorIDsForCertificate(ctx context.Context, db *gorm.DB, lfdi string, now time.Time) ([]uint32, error) {
	cert, err := CertificateByLFDI(ctx, db, lfdi)
	if err == gorm.ErrRecordNotFound {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to look up certificate: %w", err)
	}
	if !cert.Expiry.After(now) {
		return nil, nil
	}

	var assignments []AggregatorCertificateAssignment
	if err := db.WithContext(ctx).Where("certificate_id = ?", cert.CertificateID).Find(&assignments).Error; err != nil {
		return nil, fmt.Errorf("failed to fetch certificate assignments: %w", err)
	}

	ids := make([]uint32, len(assignments))
	for i, a := range assignments {
		ids[i] = a.AggregatorID
	}
	return ids, nil
}

// AddDomain whitelists a new FQDN for aggregatorID.
func AddDomain(ctx context.Context, db *gorm.DB, aggregatorID uint32, domain string, now time.Time) error {
	d := AggregatorDomain{AggregatorID: aggregatorID, Domain: domain, CreatedTime: now, ChangedTime: now}
	if err := db.WithContext(ctx).Create(&d).Error; err != nil {
		return fmt.Errorf("failed to add aggregator domain: %w", err)
	}
	return nil
}

// CreateAggregator inserts a new tenant (spec.md §6.2 admin "CRUD on aggregators").
func CreateAggregator(ctx context.Context, db *gorm.DB, name string, now time.Time) (*Aggregator, error) {
	a := Aggregator{Name: name, CreatedTime: now, ChangedTime: now}
	if err := db.WithContext(ctx).Create(&a).Error; err != nil {
		return nil, fmt.Errorf("failed to create aggregator: %w", err)
	}
	return &a, nil
}

// GetAggregator fetches one aggregator by id.
func GetAggregator(ctx context.Context, db *gorm.DB, aggregatorID uint32) (*Aggregator, error) {
	var a Aggregator
	if err := db.WithContext(ctx).First(&a, aggregatorID).Error; err != nil {
		return nil, err
	}
	return &a, nil
}

// ListAggregators returns every tenant, highest aggregator id first.
func ListAggregators(ctx context.Context, db *gorm.DB, start, limit int) ([]Aggregator, error) {
	var rows []Aggregator
	if err := db.WithContext(ctx).Order("aggregator_id DESC").Offset(start).Limit(limit).Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to list aggregators: %w", err)
	}
	return rows, nil
}

// UpdateAggregator renames an aggregator, archiving its pre-image first.
func UpdateAggregator(ctx context.Context, db *gorm.DB, aggregatorID uint32, name string, now time.Time) error {
	return db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var existing Aggregator
		if err := tx.First(&existing, aggregatorID).Error; err != nil {
			return err
		}
		if err := archive.CopyIntoArchive(ctx, tx, []Aggregator{existing}, ToArchive, now); err != nil {
			return err
		}
		existing.Name = name
		existing.ChangedTime = now
		return tx.Save(&existing).Error
	})
}

// DeleteAggregator archives and removes an aggregator. It does not cascade to the Sites it
// owns; callers are expected to re-parent or delete those separately.
func DeleteAggregator(ctx context.Context, db *gorm.DB, aggregatorID uint32, now time.Time) error {
	var existing Aggregator
	if err := db.WithContext(ctx).First(&existing, aggregatorID).Error; err != nil {
		return err
	}
	return archive.DeleteIntoArchive(ctx, db, []Aggregator{existing}, ToArchive, now, func(tx *gorm.DB) error {
		return tx.Delete(&Aggregator{}, aggregatorID).Error
	})
}

// CreateCertificate registers a new client certificate identity.
func CreateCertificate(ctx context.Context, db *gorm.DB, lfdi string, sfdi uint64, expiry time.Time) (*Certificate, error) {
	c := Certificate{LFDI: lfdi, SFDI: sfdi, Expiry: expiry}
	if err := db.WithContext(ctx).Create(&c).Error; err != nil {
		return nil, fmt.Errorf("failed to create certificate: %w", err)
	}
	return &c, nil
}

// ListCertificates returns every registered certificate.
func ListCertificates(ctx context.Context, db *gorm.DB, start, limit int) ([]Certificate, error) {
	var rows []Certificate
	if err := db.WithContext(ctx).Order("certificate_id DESC").Offset(start).Limit(limit).Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to list certificates: %w", err)
	}
	return rows, nil
}

// UpdateCertificateExpiry extends or revokes (by setting expiry to now) a certificate.
func UpdateCertificateExpiry(ctx context.Context, db *gorm.DB, certificateID uint32, expiry time.Time) error {
	res := db.WithContext(ctx).Model(&Certificate{}).Where("certificate_id = ?", certificateID).Update("expiry", expiry)
	if res.Error != nil {
		return fmt.Errorf("failed to update certificate expiry: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// DeleteCertificate removes a certificate and its aggregator assignments.
func DeleteCertificate(ctx context.Context, db *gorm.DB, certificateID uint32) error {
	return db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("certificate_id = ?", certificateID).Delete(&AggregatorCertificateAssignment{}).Error; err != nil {
			return err
		}
		return tx.Delete(&Certificate{}, certificateID).Error
	})
}

// AssignCertificate grants aggregatorID the right to present certificateID.
func AssignCertificate(ctx context.Context, db *gorm.DB, certificateID, aggregatorID uint32) error {
	a := AggregatorCertificateAssignment{CertificateID: certificateID, AggregatorID: aggregatorID}
	if err := db.WithContext(ctx).Create(&a).Error; err != nil {
		return fmt.Errorf("failed to assign certificate: %w", err)
	}
	return nil
}
