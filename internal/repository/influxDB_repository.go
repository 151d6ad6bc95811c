package repository

import (
	"context"
	"fmt"
	"log"
	"strconv"
	"time"

	influxdb2 "github.com/influxdata/influxdb-client-go/v2"
	"github.com/influxdata/influxdb-client-go/v2/api/query"

	"CapIot.energyportal/internal/models"
)

const (
	powerMeasurement = "power_readings"
	powerField       = "power"
)

// InfluxDBRepository reads and writes meter readings in InfluxDB.
type InfluxDBRepository struct {
	client influxdb2.Client
	org    string
	bucket string
}

// NewInfluxDBRepository creates a new InfluxDBRepository.
func NewInfluxDBRepository(url, token, org, bucket string) *InfluxDBRepository {
	client := influxdb2.NewClient(url, token)
	return &InfluxDBRepository{
		client: client,
		org:    org,
		bucket: bucket,
	}
}

// Ping checks the InfluxDB health endpoint.
func (r *InfluxDBRepository) Ping(ctx context.Context) error {
	health, err := r.client.Health(ctx)
	if err != nil {
		return fmt.Errorf("failed to connect to InfluxDB: %w", err)
	}
	if health.Status != "pass" {
		msg := ""
		if health.Message != nil {
			msg = *health.Message
		}
		return fmt.Errorf("InfluxDB health check failed: %s", msg)
	}
	log.Println("Successfully connected to InfluxDB!")
	return nil
}

func (r *InfluxDBRepository) Close() {
	r.client.Close()
}

// WriteReading stores a single power reading, creating the bucket on first use.
func (r *InfluxDBRepository) WriteReading(ctx context.Context, reading models.PowerReading) error {
	if reading.ProductID == "" {
		return fmt.Errorf("product_id is required")
	}
	exists, err := r.BucketExists(ctx, r.bucket)
	if err != nil {
		return err
	}
	if !exists {
		log.Printf("Bucket '%s' does not exist, creating it.", r.bucket)
		if err := r.CreateBucket(ctx, r.bucket); err != nil {
			return fmt.Errorf("error creating bucket '%s': %w", r.bucket, err)
		}
	}

	ts := reading.Time
	if ts.IsZero() {
		ts = time.Now()
	}
	p := influxdb2.NewPoint(
		powerMeasurement,
		map[string]string{"product_id": reading.ProductID},
		map[string]interface{}{powerField: reading.Watts},
		ts,
	)
	writeAPI := r.client.WriteAPIBlocking(r.org, r.bucket)
	if err := writeAPI.WritePoint(ctx, p); err != nil {
		return fmt.Errorf("error writing to InfluxDB: %w", err)
	}
	log.Printf("Reading written to InfluxDB, bucket: %s, product_id: %s, watts: %f", r.bucket, reading.ProductID, reading.Watts)
	return nil
}

// BucketExists checks if a bucket exists in InfluxDB.
func (r *InfluxDBRepository) BucketExists(ctx context.Context, name string) (bool, error) {
	_, err := r.client.BucketsAPI().FindBucketByName(ctx, name)
	if err != nil {
		if err.Error() == "not found" {
			return false, nil
		}
		return false, fmt.Errorf("error checking bucket existence: %w", err)
	}
	return true, nil
}

// CreateBucket creates a new bucket in the repository's organization.
func (r *InfluxDBRepository) CreateBucket(ctx context.Context, name string) error {
	org, err := r.client.OrganizationsAPI().FindOrganizationByName(ctx, r.org)
	if err != nil {
		log.Printf("Error finding organization '%s': %v", r.org, err)
		return err
	}
	if org == nil {
		return fmt.Errorf("organization '%s' not found", r.org)
	}
	if _, err := r.client.BucketsAPI().CreateBucketWithName(ctx, org, name); err != nil {
		log.Printf("Error creating bucket: %v", err)
		return err
	}
	log.Printf("Bucket '%s' created successfully.", name)
	return nil
}

// FetchTree loads every reading of productID, averaged per minute, as a
// ReadingTree keyed by UTC date, hour and minute.
func (r *InfluxDBRepository) FetchTree(ctx context.Context, productID string) (models.ReadingTree, error) {
	if productID == "" {
		return nil, fmt.Errorf("product_id is required")
	}
	fluxQuery := PowerTreeQuery(r.bucket, productID)
	result, err := r.client.QueryAPI(r.org).Query(ctx, fluxQuery)
	if err != nil {
		log.Printf("Error querying InfluxDB: %v\nQuery: %s", err, fluxQuery)
		return nil, fmt.Errorf("error querying InfluxDB: %w", err)
	}
	defer result.Close()

	tree := models.ReadingTree{}
	for result.Next() {
		addRecord(tree, result.Record())
	}
	if result.Err() != nil {
		return nil, fmt.Errorf("query error: %w", result.Err())
	}
	return tree, nil
}

// PowerTreeQuery builds the Flux query behind FetchTree.
func PowerTreeQuery(bucket, productID string) string {
	return fmt.Sprintf(`
		from(bucket: %q)
		|> range(start: 0)
		|> filter(fn: (r) => r["_measurement"] == %q)
		|> filter(fn: (r) => r["_field"] == %q)
		|> filter(fn: (r) => r["product_id"] == %q)
		|> aggregateWindow(every: 1m, fn: mean, createEmpty: false, timeSrc: "_start")
	`, bucket, powerMeasurement, powerField, productID)
}

func addRecord(tree models.ReadingTree, record *query.FluxRecord) {
	var watts float64
	switch v := record.Value().(type) {
	case float64:
		watts = v
	case int64:
		watts = float64(v)
	default:
		log.Printf("Skipping non-numeric power value %v", v)
		return
	}
	AddReading(tree, record.Time(), watts)
}

// AddReading files watts under t's UTC date, unpadded hour and unpadded
// minute, the layout the realtime database uses.
func AddReading(tree models.ReadingTree, t time.Time, watts float64) {
	t = t.UTC()
	tree.Add(t.Format("2006-01-02"), strconv.Itoa(t.Hour()), strconv.Itoa(t.Minute()), watts)
}
