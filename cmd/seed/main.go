package main

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/joho/godotenv"

	"github.com/jobtrackio/jobtrack-api/config"
	"github.com/jobtrackio/jobtrack-api/pkg/helpers"
)

type seedJob struct {
	position    string
	company     string
	location    string
	minSalary   *int64
	maxSalary   *int64
	status      string
	dateSaved   string
	deadline    *string
	dateApplied *string
	followUp    *string
	excitement  int
	description string
	keywords    []string
	link        string
	notes       string
}

func strPtr(s string) *string { return &s }
func i64Ptr(v int64) *int64   { return &v }

var sampleJobs = []seedJob{
	{
		position: "Product Designer", company: "Acme Corp", location: "Anywhere, USA",
		status: "Applied", dateSaved: "2025-12-05", deadline: strPtr("2025-12-04"),
		dateApplied: strPtr("2025-12-05"), followUp: strPtr("2025-12-08"), excitement: 2,
		description: "We are searching for a passionate product designer to join our team.",
		keywords:    []string{"Computer-Aided Design", "Prototyping", "3D Modeling"},
		link:        "https://example.com/job/1",
	},
	{
		position: "Marketing Manager", company: "Acme Corp", location: "Anywhere, USA",
		status: "Bookmarked", dateSaved: "2025-12-05",
		dateApplied: strPtr("2025-12-05"), followUp: strPtr("2025-12-08"), excitement: 2,
		keywords: []string{}, link: "https://example.com/job/2",
	},
	{
		position: "Operations Manager", company: "Acme Corp", location: "remote",
		status: "Bookmarked", dateSaved: "2025-12-05",
		dateApplied: strPtr("2025-12-05"), followUp: strPtr("2025-12-08"), excitement: 2,
		keywords: []string{}, link: "https://example.com/job/3",
	},
	{
		position: "Software Engineer", company: "Tech Startup", location: "Jakarta, Indonesia",
		minSalary: i64Ptr(15000000), maxSalary: i64Ptr(25000000),
		status: "Interviewing", dateSaved: "2025-11-20", deadline: strPtr("2025-12-15"),
		dateApplied: strPtr("2025-11-25"), followUp: strPtr("2025-12-10"), excitement: 4,
		description: "Looking for a full-stack developer with React and Node.js experience.",
		keywords:    []string{"React", "Node.js", "TypeScript", "PostgreSQL"},
		link:        "https://example.com/job/4",
		notes:       "Had first interview, waiting for technical round",
	},
	{
		position: "Frontend Developer", company: "Digital Agency", location: "Remote",
		minSalary: i64Ptr(10000000), maxSalary: i64Ptr(18000000),
		status: "Applying", dateSaved: "2025-12-01", deadline: strPtr("2025-12-20"),
		excitement:  3,
		description: "Join our creative team to build amazing web experiences.",
		keywords:    []string{"Vue.js", "Tailwind CSS", "Figma"},
		link:        "https://example.com/job/5",
		notes:       "Preparing portfolio for application",
	},
}

func main() {
	_ = godotenv.Load()
	cfg := config.Load()

	ctx := context.Background()
	conn, err := pgx.Connect(ctx, cfg.PostgresDSN())
	if err != nil {
		log.Fatalf("failed to connect to db: %v", err)
	}
	defer func() { _ = conn.Close(ctx) }()

	email := "demo@jobtrack.io"
	password := "password123"
	name := "Demo User"
	hash, err := helpers.HashPassword(password)
	if err != nil {
		log.Fatalf("failed to hash password: %v", err)
	}

	var userID int64
	err = conn.QueryRow(ctx, `
		INSERT INTO users (email, password_hash, name)
		VALUES ($1, $2, $3)
		ON CONFLICT (email) DO UPDATE SET name = EXCLUDED.name
		RETURNING id
	`, email, hash, name).Scan(&userID)
	if err != nil {
		log.Fatalf("failed to seed user: %v", err)
	}
	fmt.Printf("seeded user: id=%d email=%s password=%s\n", userID, email, password)

	for _, j := range sampleJobs {
		_, err := conn.Exec(ctx, `
			INSERT INTO jobs (user_id, position, company, location, min_salary, max_salary,
				status, date_saved, deadline, date_applied, follow_up, excitement,
				job_description, keywords, link, notes)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)
		`, userID, j.position, j.company, j.location, j.minSalary, j.maxSalary,
			j.status, parseDay(j.dateSaved), parseDayPtr(j.deadline), parseDayPtr(j.dateApplied),
			parseDayPtr(j.followUp), j.excitement, j.description, j.keywords,
			j.link, j.notes)
		if err != nil {
			log.Fatalf("failed to seed job %q: %v", j.position, err)
		}
	}
	fmt.Printf("seeded %d jobs\n", len(sampleJobs))
}

func parseDay(s string) time.Time {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		log.Fatalf("bad seed date %q: %v", s, err)
	}
	return t
}

func parseDayPtr(s *string) *time.Time {
	if s == nil {
		return nil
	}
	t := parseDay(*s)
	return &t
}
