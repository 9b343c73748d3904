// Package aggregator implements Aggregator, its certificate assignments, and its
// permitted-FQDN allowlist used to validate subscription callback URIs.
package aggregator

import "time"

// NullAggregatorID is the always-present aggregator that device-certificate sites (one
// site per certificate, no managing tenant) are grouped under.
const NullAggregatorID int64 = 0

// Aggregator is a tenant that owns a set of Sites.
type Aggregator struct {
	AggregatorID uint32    `gorm:"column:aggregator_id;primaryKey;autoIncrement"`
	Name         string    `gorm:"column:name"`
	CreatedTime  time.Time `gorm:"column:created_time"`
	ChangedTime  time.Time `gorm:"column:changed_time;index"`
}

func (Aggregator) TableName() string { return "aggregator" }

// ArchiveAggregator is the append-only shadow of Aggregator.
type ArchiveAggregator struct {
	ArchiveID    uint64 `gorm:"column:archive_id;primaryKey"`
	AggregatorID uint32 `gorm:"column:aggregator_id;index"`
	Name         string
	CreatedTime  time.Time
	ChangedTime  time.Time
	ArchiveTime  time.Time
	DeletedTime  *time.Time
}

func (ArchiveAggregator) TableName() string { return "archive_aggregator" }

func ToArchive(a Aggregator, archiveTime time.Time, deletedTime *time.Time) ArchiveAggregator {
	return ArchiveAggregator{
		AggregatorID: a.AggregatorID,
		Name:         a.Name,
		CreatedTime:  a.CreatedTime,
		ChangedTime:  a.ChangedTime,
		ArchiveTime:  archiveTime,
		DeletedTime:  deletedTime,
	}
}

// AggregatorDomain is one whitelisted FQDN an Aggregator's notification callbacks may
// target; a subscription's notificationURI host must match one of these to be accepted.
type AggregatorDomain struct {
	AggregatorDomainID uint32    `gorm:"column:aggregator_domain_id;primaryKey;autoIncrement"`
	AggregatorID       uint32    `gorm:"column:aggregator_id;index"`
	CreatedTime        time.Time `gorm:"column:created_time"`
	ChangedTime        time.Time `gorm:"column:changed_time"`
	Domain             string    `gorm:"column:domain;type:varchar(512)"`
}

func (AggregatorDomain) TableName() string { return "aggregator_domain" }

// Certificate is a client certificate's identity: its fingerprint, short identifier, and
// expiry. A request is only authenticated if it presents a certificate whose Expiry > now.
type Certificate struct {
	CertificateID uint32    `gorm:"column:certificate_id;primaryKey;autoIncrement"`
	LFDI          string    `gorm:"column:lfdi;type:varchar(42);uniqueIndex"`
	SFDI          uint64    `gorm:"column:sfdi"` // 63-bit int
	Expiry        time.Time `gorm:"column:expiry;index"`
}

func (Certificate) TableName() string { return "certificate" }

// AggregatorCertificateAssignment links a Certificate to the Aggregator(s) permitted to
// present it (many-to-many).
type AggregatorCertificateAssignment struct {
	AssignmentID  uint32 `gorm:"column:assignment_id;primaryKey;autoIncrement"`
	CertificateID uint32 `gorm:"column:certificate_id;uniqueIndex:cert_id_agg_id_uc,priority:1"`
	AggregatorID  uint32 `gorm:"column:aggregator_id;uniqueIndex:cert_id_agg_id_uc,priority:2"`
}

func (AggregatorCertificateAssignment) TableName() string {
	return "aggregator_certificate_assignment"
}
