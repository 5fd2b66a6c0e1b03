package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// NetworkData is one aggregated traffic sample from a facility sensor.
type NetworkData struct {
	ID         uuid.UUID `json:"id" gorm:"type:uuid;primaryKey"`
	Timestamp  time.Time `json:"timestamp" gorm:"not null;index"`
	FacilityID string    `json:"facility_id" gorm:"not null;index"`

	// Aggregated metrics
	PacketsPerSec        int     `json:"packets_per_sec"`
	BytesPerSec          int     `json:"bytes_per_sec"`
	UniqueSrcIPs         int     `json:"unique_src_ips"`
	UniqueDestIPs        int     `json:"unique_dest_ips"`
	ProtocolDistribution float64 `json:"protocol_distribution"`
	FailedConnections    int     `json:"failed_connections"`
	AvgPacketSize        int     `json:"avg_packet_size"`
	InterArrivalTime     int     `json:"inter_arrival_time"`

	// Raw features kept loose for model experimentation
	RawFeatures JSONMap `json:"raw_features,omitempty" gorm:"type:jsonb"`
}

func (NetworkData) TableName() string {
	return "network_data"
}

func (n *NetworkData) BeforeCreate(tx *gorm.DB) error {
	if n.ID == uuid.Nil {
		n.ID = uuid.New()
	}
	if n.Timestamp.IsZero() {
		n.Timestamp = time.Now().UTC()
	}
	return nil
}
