package main

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"
)

// APIClient handles HTTP communication with the backend
type APIClient struct {
	baseURL    string
	httpClient *http.Client
}

// NewAPIClient creates a new API client
func NewAPIClient(baseURL string) *APIClient {
	return &APIClient{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// Response types matching backend

type User struct {
	ID    uint   `json:"id"`
	Email string `json:"email"`
	Role  string `json:"role"`
}

type Tokens struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
}

type Director struct {
	ID          uint   `json:"id"`
	Name        string `json:"name"`
	DOB         string `json:"dob"`
	Nationality string `json:"nationality"`
}

type Genre struct {
	ID   uint   `json:"id"`
	Name string `json:"name"`
}

type Movie struct {
	ID       uint      `json:"id"`
	Title    string    `json:"title"`
	Detail   string    `json:"detail"`
	Director *Director `json:"director"`
	Genres   []Genre   `json:"genres"`
}

type MoviePage struct {
	Data       []Movie `json:"data"`
	Count      int64   `json:"count"`
	NextCursor *uint   `json:"nextCursor"`
}

// RegisterUser creates a new account with Basic credentials
func (c *APIClient) RegisterUser(email, password string) (*User, error) {
	var user User
	if err := c.do("POST", "/auth/register", nil, basic(email, password), http.StatusCreated, &user); err != nil {
		return nil, fmt.Errorf("register %s: %w", email, err)
	}
	return &user, nil
}

// Login exchanges Basic credentials for a token pair
func (c *APIClient) Login(email, password string) (*Tokens, error) {
	var tokens Tokens
	if err := c.do("POST", "/auth/login", nil, basic(email, password), http.StatusOK, &tokens); err != nil {
		return nil, fmt.Errorf("login %s: %w", email, err)
	}
	return &tokens, nil
}

func (c *APIClient) CreateDirector(token string, d Director) (*Director, error) {
	var created Director
	if err := c.do("POST", "/director", d, bearer(token), http.StatusCreated, &created); err != nil {
		return nil, fmt.Errorf("create director %s: %w", d.Name, err)
	}
	return &created, nil
}

func (c *APIClient) CreateGenre(token, name string) (*Genre, error) {
	var created Genre
	body := map[string]string{"name": name}
	if err := c.do("POST", "/genre", body, bearer(token), http.StatusCreated, &created); err != nil {
		return nil, fmt.Errorf("create genre %s: %w", name, err)
	}
	return &created, nil
}

func (c *APIClient) CreateMovie(token, title, detail string, directorID uint, genreIDs []uint) (*Movie, error) {
	if genreIDs == nil {
		genreIDs = []uint{}
	}
	body := map[string]interface{}{
		"title":      title,
		"detail":     detail,
		"directorId": directorID,
		"genreIds":   genreIDs,
	}

	var created Movie
	if err := c.do("POST", "/movie", body, bearer(token), http.StatusCreated, &created); err != nil {
		return nil, fmt.Errorf("create movie %s: %w", title, err)
	}
	return &created, nil
}

// ListMovies fetches one cursor page, starting after lastID when set
func (c *APIClient) ListMovies(title string, take int, lastID *uint) (*MoviePage, error) {
	q := url.Values{}
	q.Set("take", strconv.Itoa(take))
	if title != "" {
		q.Set("title", title)
	}
	if lastID != nil {
		q.Set("id", strconv.FormatUint(uint64(*lastID), 10))
	}

	var page MoviePage
	if err := c.do("GET", "/movie?"+q.Encode(), nil, "", http.StatusOK, &page); err != nil {
		return nil, fmt.Errorf("list movies: %w", err)
	}
	return &page, nil
}

// HTTP helpers

func basic(email, password string) string {
	return "Basic " + base64.StdEncoding.EncodeToString([]byte(email+":"+password))
}

func bearer(token string) string {
	return "Bearer " + token
}

func (c *APIClient) do(method, path string, body interface{}, authorization string, wantStatus int, out interface{}) error {
	var bodyReader io.Reader
	if body != nil {
		jsonBody, err := json.Marshal(body)
		if err != nil {
			return err
		}
		bodyReader = bytes.NewReader(jsonBody)
	}

	req, err := http.NewRequest(method, c.baseURL+path, bodyReader)
	if err != nil {
		return err
	}

	if authorization != "" {
		req.Header.Set("Authorization", authorization)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != wantStatus {
		bodyBytes, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("status %d: %s", resp.StatusCode, string(bytes.TrimSpace(bodyBytes)))
	}

	if out == nil {
		return nil
	}
	return json.NewDecoder(resp.Body).Decode(out)
}
