// Package synth generates synthetic labelled alert datasets for demos and
// tests. Output is a valid scoring input with a label column.
package synth

import (
	"fmt"
	"math"
	"sort"
	"time"

	"alert-risk/pkg/alert"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/google/uuid"
)

var (
	benignEvents    = []string{"login", "file_access", "network_connection", "process_start", "logout"}
	maliciousEvents = []string{"login", "process_start", "privilege_change", "network_connection", "credential_access"}
)

type Config struct {
	Rows           int
	Seed           int64
	Span           time.Duration
	MaliciousRatio float64
	// End is the newest possible timestamp; zero means now.
	End time.Time
}

func DefaultConfig() Config {
	return Config{
		Rows:           1000,
		Seed:           42,
		Span:           7 * 24 * time.Hour,
		MaliciousRatio: 0.1,
	}
}

type Generator struct {
	config Config
	faker  *gofakeit.Faker
	users  []string
	hosts  []string
}

func NewGenerator(config Config) *Generator {
	def := DefaultConfig()
	if config.Rows <= 0 {
		config.Rows = def.Rows
	}
	if config.Span <= 0 {
		config.Span = def.Span
	}
	if config.MaliciousRatio <= 0 || config.MaliciousRatio >= 1 {
		config.MaliciousRatio = def.MaliciousRatio
	}
	if config.End.IsZero() {
		config.End = time.Now().UTC().Truncate(time.Second)
	}

	faker := gofakeit.New(uint64(config.Seed))
	g := &Generator{config: config, faker: faker}

	poolSize := config.Rows/20 + 5
	for i := 0; i < poolSize; i++ {
		g.users = append(g.users, faker.Username())
	}
	for i := 0; i < poolSize/2+1; i++ {
		g.hosts = append(g.hosts, fmt.Sprintf("%s-%02d", faker.RandomString([]string{"web", "db", "ws", "dc", "vpn"}), i))
	}
	return g
}

// AssetID derives a stable identifier from a host name.
func AssetID(host string) string {
	return uuid.NewSHA1(uuid.NameSpaceOID, []byte("asset/"+host)).String()
}

func (g *Generator) Config() Config {
	return g.config
}

// Generate returns the rows ordered by timestamp. With at least two rows both
// classes are present.
func (g *Generator) Generate() []alert.Alert {
	rows := g.config.Rows
	numMalicious := int(math.Round(g.config.MaliciousRatio * float64(rows)))
	if rows >= 2 {
		numMalicious = min(max(numMalicious, 1), rows-1)
	}

	order := make([]int, rows)
	for i := range order {
		order[i] = i
	}
	g.faker.ShuffleInts(order)
	malicious := make([]bool, rows)
	for _, idx := range order[:numMalicious] {
		malicious[idx] = true
	}

	alerts := make([]alert.Alert, rows)
	times := make([]time.Time, rows)
	for i := 0; i < rows; i++ {
		times[i] = g.timestamp(malicious[i])
		alerts[i] = g.alert(malicious[i], times[i])
	}

	sort.Stable(byTime{alerts: alerts, times: times})
	return alerts
}

func (g *Generator) timestamp(malicious bool) time.Time {
	start := g.config.End.Add(-g.config.Span)
	t := g.faker.DateRange(start, g.config.End).UTC().Truncate(time.Second)
	if !malicious {
		return t
	}
	// Most malicious activity lands outside business hours.
	for tries := 0; tries < 8 && !isOffHours(t) && g.faker.Float64() < 0.8; tries++ {
		t = g.faker.DateRange(start, g.config.End).UTC().Truncate(time.Second)
	}
	return t
}

func (g *Generator) alert(malicious bool, ts time.Time) alert.Alert {
	f := g.faker
	host := f.RandomString(g.hosts)
	a := alert.Alert{
		Timestamp: ts.Format(alert.TimestampLayout),
		UserID:    f.RandomString(g.users),
		AssetID:   AssetID(host),
	}
	if isOffHours(ts) {
		a.OffHours = 1
	}

	if malicious {
		a.EventType = f.RandomString(maliciousEvents)
		a.AnomalyScore = round(f.Float64Range(0.55, 1.0), 3)
		a.FailedLogins24h = float64(f.IntRange(2, 25))
		a.GeoDistanceKm = round(f.Float64Range(500, 9000), 1)
		if f.Float64() < 0.6 {
			a.ProcInjectionFlag = 1
		}
		a.Label = "1"
		return a
	}

	a.EventType = f.RandomString(benignEvents)
	a.AnomalyScore = round(f.Float64Range(0, 0.55), 3)
	a.FailedLogins24h = float64(f.IntRange(0, 3))
	a.GeoDistanceKm = round(f.Float64Range(0, 400), 1)
	if f.Float64() < 0.02 {
		a.ProcInjectionFlag = 1
	}
	a.Label = "0"
	return a
}

// WriteFile generates a dataset and saves it with its label column.
func (g *Generator) WriteFile(path string) (int, error) {
	alerts := g.Generate()
	if err := alert.Save(path, alerts, true); err != nil {
		return 0, fmt.Errorf("failed to write %s: %w", path, err)
	}
	return len(alerts), nil
}

// isOffHours is true before 07:00 and from 20:00 UTC.
func isOffHours(t time.Time) bool {
	h := t.Hour()
	return h < 7 || h >= 20
}

func round(v float64, digits int) float64 {
	p := math.Pow(10, float64(digits))
	return math.Round(v*p) / p
}

type byTime struct {
	alerts []alert.Alert
	times  []time.Time
}

func (b byTime) Len() int           { return len(b.alerts) }
func (b byTime) Less(i, j int) bool { return b.times[i].Before(b.times[j]) }
func (b byTime) Swap(i, j int) {
	b.alerts[i], b.alerts[j] = b.alerts[j], b.alerts[i]
	b.times[i], b.times[j] = b.times[j], b.times[i]
}
