package main

import (
	"flag"
	"fmt"
	"math/rand"
	"os"
	"time"
)

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	// Global flags
	apiURL := "http://localhost:8080"
	if envURL := os.Getenv("API_URL"); envURL != "" {
		apiURL = envURL
	}

	command := os.Args[1]
	args := os.Args[2:]

	switch command {
	case "catalog":
		catalogCmd(apiURL, args)
	case "users":
		usersCmd(apiURL, args)
	case "browse":
		browseCmd(apiURL, args)
	case "help", "-h", "--help":
		printUsage()
	default:
		fmt.Printf("Unknown command: %s\n\n", command)
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println(`Catalog Seeder - Development tool for filling a local movie catalog

USAGE:
  seeder <command> [options]

COMMANDS:
  catalog   Log in as an admin and create directors, genres and movies
  users     Register plain user accounts
  browse    Walk every movie page with cursor pagination
  help      Show this help message

ENVIRONMENT:
  API_URL   Backend API URL (default: http://localhost:8080)

EXAMPLES:
  # Seed 30 movies using the admin from ADMIN_EMAIL/ADMIN_PASSWORD
  seeder catalog --email=admin@example.com --password=secret --movies=30

  # Register 5 users
  seeder users --count=5

  # Page through movies whose title contains "Night", 10 at a time
  seeder browse --title=Night --take=10`)
}

var (
	seedGenres    = []string{"Drama", "Thriller", "Comedy", "Science Fiction", "Horror", "Documentary"}
	seedDirectors = []Director{
		{Name: "Bong Joon-ho", DOB: "1969-09-14", Nationality: "South Korean"},
		{Name: "Agnes Varda", DOB: "1928-05-30", Nationality: "French"},
		{Name: "Akira Kurosawa", DOB: "1910-03-23", Nationality: "Japanese"},
		{Name: "Kathryn Bigelow", DOB: "1951-11-27", Nationality: "American"},
	}
)

func catalogCmd(apiURL string, args []string) {
	fs := flag.NewFlagSet("catalog", flag.ExitOnError)
	email := fs.String("email", os.Getenv("ADMIN_EMAIL"), "Admin email (default $ADMIN_EMAIL)")
	password := fs.String("password", os.Getenv("ADMIN_PASSWORD"), "Admin password (default $ADMIN_PASSWORD)")
	movies := fs.Int("movies", 20, "Number of movies to create")
	fs.Parse(args)

	if *email == "" || *password == "" {
		fmt.Println("Error: --email and --password are required")
		os.Exit(1)
	}
	if *movies < 1 {
		fmt.Println("Error: --movies must be at least 1")
		os.Exit(1)
	}

	client := NewAPIClient(apiURL)

	fmt.Println("=== Catalog Seeder ===")
	fmt.Println()

	fmt.Print("Logging in as admin... ")
	tokens, err := client.Login(*email, *password)
	if err != nil {
		fmt.Printf("FAILED\n  Error: %v\n", err)
		os.Exit(1)
	}
	fmt.Println("OK")

	suffix := time.Now().UnixNano() % 100000

	fmt.Print("Creating genres... ")
	genreIDs := make([]uint, 0, len(seedGenres))
	for _, name := range seedGenres {
		genre, err := client.CreateGenre(tokens.AccessToken, fmt.Sprintf("%s %d", name, suffix))
		if err != nil {
			fmt.Printf("FAILED\n  Error: %v\n", err)
			os.Exit(1)
		}
		genreIDs = append(genreIDs, genre.ID)
	}
	fmt.Printf("OK (%d)\n", len(genreIDs))

	fmt.Print("Creating directors... ")
	directorIDs := make([]uint, 0, len(seedDirectors))
	for _, d := range seedDirectors {
		director, err := client.CreateDirector(tokens.AccessToken, d)
		if err != nil {
			fmt.Printf("FAILED\n  Error: %v\n", err)
			os.Exit(1)
		}
		directorIDs = append(directorIDs, director.ID)
	}
	fmt.Printf("OK (%d)\n", len(directorIDs))

	fmt.Println()
	fmt.Printf("Creating %d movies:\n", *movies)
	rng := rand.New(rand.NewSource(time.Now().UnixNano()))
	for i := 0; i < *movies; i++ {
		title := fmt.Sprintf("Movie %d-%d", suffix, i+1)
		director := directorIDs[rng.Intn(len(directorIDs))]
		genres := pickGenres(rng, genreIDs)

		movie, err := client.CreateMovie(tokens.AccessToken, title, "Seeded for local development.", director, genres)
		if err != nil {
			fmt.Printf("  [%d/%d] FAILED: %v\n", i+1, *movies, err)
			continue
		}
		fmt.Printf("  [%d/%d] %s (id %d, %d genres)\n", i+1, *movies, movie.Title, movie.ID, len(movie.Genres))
	}

	fmt.Println()
	fmt.Println("Done!")
}

// pickGenres returns a random subset of ids without duplicates
func pickGenres(rng *rand.Rand, ids []uint) []uint {
	n := rng.Intn(len(ids) + 1)
	perm := rng.Perm(len(ids))
	out := make([]uint, 0, n)
	for _, idx := range perm[:n] {
		out = append(out, ids[idx])
	}
	return out
}

func usersCmd(apiURL string, args []string) {
	fs := flag.NewFlagSet("users", flag.ExitOnError)
	count := fs.Int("count", 5, "Number of users to register")
	password := fs.String("password", "testpassword123", "Password for every user")
	fs.Parse(args)

	client := NewAPIClient(apiURL)
	suffix := time.Now().UnixNano() % 100000

	fmt.Printf("Registering %d users...\n\n", *count)
	for i := 0; i < *count; i++ {
		email := fmt.Sprintf("user%d_%d@example.com", i+1, suffix)
		user, err := client.RegisterUser(email, *password)
		if err != nil {
			fmt.Printf("  [%d/%d] FAILED: %v\n", i+1, *count, err)
			continue
		}
		fmt.Printf("  [%d/%d] %s (id %d, role %s)\n", i+1, *count, user.Email, user.ID, user.Role)
	}

	fmt.Println()
	fmt.Printf("Done! Log in with password %q\n", *password)
}

func browseCmd(apiURL string, args []string) {
	fs := flag.NewFlagSet("browse", flag.ExitOnError)
	title := fs.String("title", "", "Only movies whose title contains this text")
	take := fs.Int("take", 10, "Page size (1-100)")
	fs.Parse(args)

	client := NewAPIClient(apiURL)

	var cursor *uint
	for pageNum := 1; ; pageNum++ {
		page, err := client.ListMovies(*title, *take, cursor)
		if err != nil {
			fmt.Printf("Failed to list movies: %v\n", err)
			os.Exit(1)
		}

		if pageNum == 1 {
			fmt.Printf("%d matching movies\n", page.Count)
		}
		for _, m := range page.Data {
			director := "-"
			if m.Director != nil {
				director = m.Director.Name
			}
			fmt.Printf("  #%d %s (%s)\n", m.ID, m.Title, director)
		}

		if page.NextCursor == nil {
			return
		}
		cursor = page.NextCursor
	}
}
