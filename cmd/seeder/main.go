package main

import (
	"flag"
	"fmt"
	"os"
	"time"
)

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	apiURL := "http://localhost:8080"
	if envURL := os.Getenv("API_URL"); envURL != "" {
		apiURL = envURL
	}

	command := os.Args[1]
	args := os.Args[2:]

	switch command {
	case "populate":
		populateCmd(apiURL, args)
	case "cv":
		cvCmd(apiURL, args)
	case "help", "-h", "--help":
		printUsage()
	default:
		fmt.Printf("Unknown command: %s\n\n", command)
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println(`CV Seeder - Development tool that fills a local server with sample CVs

USAGE:
  seeder <command> [options]

COMMANDS:
  populate  Register fake users with experience, projects and feedback
  cv        Print the CV of a user
  help      Show this help message

ENVIRONMENT:
  API_URL   Backend base URL (default: http://localhost:8080)

EXAMPLES:
  # Create 5 users, each with a full CV
  seeder populate

  # Create 3 users
  seeder populate --count=3

  # Show a CV as one of the seeded users
  seeder cv --email=seed1_1700000000@example.com --user=<id>`)
}

var companies = []string{"Acme", "Globex", "Initech", "Umbrella", "Hooli"}

var titles = []string{"Backend Engineer", "Frontend Engineer", "Data Engineer", "SRE", "Engineering Manager"}

// Seeded is an account created by Populate.
type Seeded struct {
	ID    string
	Email string
	Token string
}

// Populate registers count users, gives each an experience history and a
// project, and has every user leave feedback for the next one.
func Populate(client *APIClient, count int, logf func(format string, args ...any)) ([]Seeded, error) {
	stamp := time.Now().Unix()
	users := make([]Seeded, 0, count)

	for i := 0; i < count; i++ {
		p := Person{
			FirstName: fmt.Sprintf("Seed%d", i+1),
			LastName:  "User",
			Title:     titles[i%len(titles)],
			Summary:   "Sample profile created by the seeder",
			Email:     fmt.Sprintf("seed%d_%d@example.com", i+1, stamp),
		}

		user, token, err := client.RegisterUser(p)
		if err != nil {
			return users, fmt.Errorf("user %d: %w", i+1, err)
		}
		id := user.ID.String()

		past := companies[i%len(companies)]
		current := companies[(i+1)%len(companies)]
		if err := client.AddExperience(token, id, past, "Engineer", "2016-02-01", "2019-08-31", "Shipped services at "+past); err != nil {
			return users, err
		}
		if err := client.AddExperience(token, id, current, p.Title, "2019-09-01", "until now", "Leads work at "+current); err != nil {
			return users, err
		}
		if err := client.AddProject(token, id, fmt.Sprintf("Open source tool #%d", i+1)); err != nil {
			return users, err
		}

		users = append(users, Seeded{ID: id, Email: p.Email, Token: token})
		logf("  [%d/%d] %s %s (%s)\n", i+1, count, p.FirstName, p.LastName, p.Email)
	}

	if count < 2 {
		return users, nil
	}
	for i, author := range users {
		recipient := users[(i+1)%len(users)]
		if err := client.AddFeedback(author.Token, author.ID, recipient.ID, companies[i%len(companies)], "A pleasure to work with"); err != nil {
			return users, err
		}
	}
	return users, nil
}

func populateCmd(apiURL string, args []string) {
	fs := flag.NewFlagSet("populate", flag.ExitOnError)
	count := fs.Int("count", 5, "Number of users to create")
	fs.Parse(args)

	if *count < 1 || *count > 100 {
		fmt.Println("Error: --count must be between 1 and 100")
		os.Exit(1)
	}

	client := NewAPIClient(apiURL)

	fmt.Printf("Creating %d users...\n\n", *count)
	users, err := Populate(client, *count, func(format string, args ...any) {
		fmt.Printf(format, args...)
	})
	if err != nil {
		fmt.Printf("FAILED\n  Error: %v\n", err)
		os.Exit(1)
	}

	fmt.Println()
	fmt.Printf("Done! All accounts use the password %q\n", seedPassword)
	for _, u := range users {
		fmt.Printf("  %s  %s/api/user/%s/cv\n", u.Email, apiURL, u.ID)
	}
}

func cvCmd(apiURL string, args []string) {
	fs := flag.NewFlagSet("cv", flag.ExitOnError)
	email := fs.String("email", "", "Email to log in with (required)")
	password := fs.String("password", seedPassword, "Password to log in with")
	userID := fs.String("user", "", "User whose CV to print (defaults to the logged in user)")
	fs.Parse(args)

	if *email == "" {
		fmt.Println("Error: --email is required")
		fmt.Println("\nUsage: seeder cv --email=you@example.com [--user=<id>]")
		os.Exit(1)
	}

	client := NewAPIClient(apiURL)

	me, token, err := client.Login(*email, *password)
	if err != nil {
		fmt.Printf("Failed to log in: %v\n", err)
		os.Exit(1)
	}
	if *userID == "" {
		*userID = me.ID.String()
	}

	doc, err := client.GetCV(token, *userID)
	if err != nil {
		fmt.Printf("Failed to get CV: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("%s %s - %s\n%s\n\n", doc.FirstName, doc.LastName, doc.Title, doc.Summary)
	fmt.Println("Experience:")
	for _, e := range doc.Experiences {
		end := "now"
		if e.EndDate != nil {
			end = *e.EndDate
		}
		fmt.Printf("  %s - %s  %s at %s\n", e.StartDate, end, e.Role, e.CompanyName)
	}
	fmt.Println("Projects:")
	for _, p := range doc.Projects {
		fmt.Printf("  %s\n", p.Description)
	}
	fmt.Println("Feedback:")
	for _, f := range doc.Feedbacks {
		fmt.Printf("  %q (%s)\n", f.Content, f.CompanyName)
	}
}
