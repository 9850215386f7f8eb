package handlers_test

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/dom/movie-catalog/internal/auth"
	"github.com/dom/movie-catalog/internal/domain"
	"github.com/dom/movie-catalog/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type genreResponse struct {
	ID   uint   `json:"id"`
	Name string `json:"name"`
}

type movieResponse struct {
	ID       uint   `json:"id"`
	Title    string `json:"title"`
	Detail   string `json:"detail"`
	Director *struct {
		ID   uint   `json:"id"`
		Name string `json:"name"`
		DOB  string `json:"dob"`
	} `json:"director"`
	Genres []genreResponse `json:"genres"`
}

type movieListResponse struct {
	Data       []movieResponse `json:"data"`
	Count      int64           `json:"count"`
	NextCursor *uint           `json:"nextCursor"`
}

func ids(genres []genreResponse) []uint {
	out := make([]uint, 0, len(genres))
	for _, g := range genres {
		out = append(out, g.ID)
	}
	return out
}

func adminToken(t *testing.T, ts *testutil.TestServer) string {
	t.Helper()
	_, tokens := testutil.NewUserBuilder().WithRole(domain.RoleAdmin).BuildAndAuthenticate(t, ts)
	return tokens.AccessToken
}

func TestMovieHandler_CreateRequiresAdmin(t *testing.T) {
	ts := testutil.NewTestServer(t)

	director := testutil.NewDirectorBuilder().Build(t, ts.DB.DB)
	body := map[string]interface{}{
		"title":      "Snowpiercer",
		"detail":     "A train circles a frozen world.",
		"directorId": director.ID,
		"genreIds":   []uint{},
	}

	_, userTokens := testutil.NewUserBuilder().BuildAndAuthenticate(t, ts)
	_, paidTokens := testutil.NewUserBuilder().WithRole(domain.RolePaidUser).BuildAndAuthenticate(t, ts)

	tests := []struct {
		name           string
		token          string
		expectedStatus int
	}{
		{name: "anonymous", token: "", expectedStatus: http.StatusUnauthorized},
		{name: "user", token: userTokens.AccessToken, expectedStatus: http.StatusForbidden},
		{name: "paid user", token: paidTokens.AccessToken, expectedStatus: http.StatusForbidden},
		{name: "refresh token", token: userTokens.RefreshToken, expectedStatus: http.StatusUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := testutil.CreateAuthenticatedRequest(t, http.MethodPost, ts.APIURL("/movie"), body, tt.token)
			testutil.AssertStatusCode(t, testutil.Do(t, req), tt.expectedStatus)
		})
	}

	var count int64
	require.NoError(t, ts.DB.DB.Model(&domain.Movie{}).Count(&count).Error)
	assert.Zero(t, count, "rejected requests must not write")
}

func TestMovieHandler_Create(t *testing.T) {
	ts := testutil.NewTestServer(t)
	token := adminToken(t, ts)

	director := testutil.NewDirectorBuilder().WithName("Park Chan-wook").Build(t, ts.DB.DB)
	thriller := testutil.NewGenreBuilder().WithName("Thriller").Build(t, ts.DB.DB)
	drama := testutil.NewGenreBuilder().WithName("Drama").Build(t, ts.DB.DB)

	tests := []struct {
		name           string
		body           map[string]interface{}
		expectedStatus int
		checkResponse  func(*testing.T, *http.Response)
	}{
		{
			name: "successful creation",
			body: map[string]interface{}{
				"title":      "Oldboy",
				"detail":     "Fifteen years in a room.",
				"directorId": director.ID,
				"genreIds":   []uint{thriller.ID, drama.ID},
			},
			expectedStatus: http.StatusCreated,
			checkResponse: func(t *testing.T, resp *http.Response) {
				var movie movieResponse
				testutil.AssertJSONResponse(t, resp, &movie)
				assert.Equal(t, "Oldboy", movie.Title)
				assert.Equal(t, "Fifteen years in a room.", movie.Detail)
				require.NotNil(t, movie.Director)
				assert.Equal(t, "Park Chan-wook", movie.Director.Name)
				assert.ElementsMatch(t, []uint{thriller.ID, drama.ID}, ids(movie.Genres))
			},
		},
		{
			name: "missing genre list",
			body: map[string]interface{}{
				"title":      "Joint Security Area",
				"detail":     "A shooting at the border.",
				"directorId": director.ID,
			},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name: "null genre list",
			body: map[string]interface{}{
				"title":      "Joint Security Area",
				"detail":     "A shooting at the border.",
				"directorId": director.ID,
				"genreIds":   nil,
			},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name: "explicitly empty genre list",
			body: map[string]interface{}{
				"title":      "Joint Security Area",
				"detail":     "A shooting at the border.",
				"directorId": director.ID,
				"genreIds":   []uint{},
			},
			expectedStatus: http.StatusCreated,
			checkResponse: func(t *testing.T, resp *http.Response) {
				var movie movieResponse
				testutil.AssertJSONResponse(t, resp, &movie)
				assert.NotNil(t, movie.Genres)
				assert.Empty(t, movie.Genres)
			},
		},
		{
			name: "duplicate title",
			body: map[string]interface{}{
				"title":      "Oldboy",
				"detail":     "again",
				"directorId": director.ID,
				"genreIds":   []uint{},
			},
			expectedStatus: http.StatusConflict,
		},
		{
			name: "unknown director",
			body: map[string]interface{}{
				"title":      "Ghost",
				"detail":     "x",
				"directorId": director.ID + 100,
				"genreIds":   []uint{},
			},
			expectedStatus: http.StatusNotFound,
		},
		{
			name: "unknown genre",
			body: map[string]interface{}{
				"title":      "Ghost",
				"detail":     "x",
				"directorId": director.ID,
				"genreIds":   []uint{thriller.ID, drama.ID + 100},
			},
			expectedStatus: http.StatusNotFound,
		},
		{
			name: "duplicate genre ids",
			body: map[string]interface{}{
				"title":      "Ghost",
				"detail":     "x",
				"directorId": director.ID,
				"genreIds":   []uint{thriller.ID, thriller.ID},
			},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name: "missing title",
			body: map[string]interface{}{
				"detail":     "x",
				"directorId": director.ID,
				"genreIds":   []uint{},
			},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name: "unknown field",
			body: map[string]interface{}{
				"title":      "Ghost",
				"detail":     "x",
				"directorId": director.ID,
				"genreIds":   []uint{},
				"rating":     5,
			},
			expectedStatus: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := testutil.CreateAuthenticatedRequest(t, http.MethodPost, ts.APIURL("/movie"), tt.body, token)
			resp := testutil.Do(t, req)

			testutil.AssertStatusCode(t, resp, tt.expectedStatus)
			if tt.checkResponse != nil {
				tt.checkResponse(t, resp)
			}
		})
	}
}

func TestMovieHandler_Update(t *testing.T) {
	ts := testutil.NewTestServer(t)
	token := adminToken(t, ts)

	drama := testutil.NewGenreBuilder().Build(t, ts.DB.DB)
	comedy := testutil.NewGenreBuilder().Build(t, ts.DB.DB)
	movie := testutil.NewMovieBuilder().WithDetail("old").WithGenres(drama, comedy).Build(t, ts.DB.DB)
	url := ts.APIURL(fmt.Sprintf("/movie/%d", movie.ID))

	t.Run("detail only", func(t *testing.T) {
		req := testutil.CreateAuthenticatedRequest(t, http.MethodPatch, url, map[string]interface{}{"detail": "new"}, token)
		resp := testutil.Do(t, req)
		require.Equal(t, http.StatusOK, resp.StatusCode)

		var got movieResponse
		testutil.AssertJSONResponse(t, resp, &got)
		assert.Equal(t, "new", got.Detail)
		assert.Equal(t, movie.Title, got.Title)
		assert.ElementsMatch(t, []uint{drama.ID, comedy.ID}, ids(got.Genres))
	})

	t.Run("empty genre list clears", func(t *testing.T) {
		req := testutil.CreateAuthenticatedRequest(t, http.MethodPatch, url, map[string]interface{}{"genreIds": []uint{}}, token)
		resp := testutil.Do(t, req)
		require.Equal(t, http.StatusOK, resp.StatusCode)

		var got movieResponse
		testutil.AssertJSONResponse(t, resp, &got)
		assert.Empty(t, got.Genres)
		assert.Equal(t, "new", got.Detail)
	})

	t.Run("missing movie", func(t *testing.T) {
		req := testutil.CreateAuthenticatedRequest(t, http.MethodPatch, ts.APIURL("/movie/9999"), map[string]interface{}{"detail": "x"}, token)
		testutil.AssertStatusCode(t, testutil.Do(t, req), http.StatusNotFound)
	})

	t.Run("bad id", func(t *testing.T) {
		req := testutil.CreateAuthenticatedRequest(t, http.MethodPatch, ts.APIURL("/movie/abc"), map[string]interface{}{"detail": "x"}, token)
		testutil.AssertStatusCode(t, testutil.Do(t, req), http.StatusBadRequest)
	})
}

func TestMovieHandler_GetAndDelete(t *testing.T) {
	ts := testutil.NewTestServer(t)
	token := adminToken(t, ts)

	movie := testutil.NewMovieBuilder().WithDetail("detail text").Build(t, ts.DB.DB)
	url := ts.APIURL(fmt.Sprintf("/movie/%d", movie.ID))

	// public read
	resp := testutil.Do(t, testutil.CreateAuthenticatedRequest(t, http.MethodGet, url, nil, ""))
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var got movieResponse
	testutil.AssertJSONResponse(t, resp, &got)
	assert.Equal(t, movie.ID, got.ID)
	assert.Equal(t, "detail text", got.Detail)
	require.NotNil(t, got.Director)
	assert.Equal(t, "1969-09-14", got.Director.DOB)

	resp = testutil.Do(t, testutil.CreateAuthenticatedRequest(t, http.MethodDelete, url, nil, token))
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var deleted struct {
		ID uint `json:"id"`
	}
	testutil.AssertJSONResponse(t, resp, &deleted)
	assert.Equal(t, movie.ID, deleted.ID)

	resp = testutil.Do(t, testutil.CreateAuthenticatedRequest(t, http.MethodGet, url, nil, ""))
	testutil.AssertErrorResponse(t, resp, http.StatusNotFound, "movie not found")
}

func TestMovieHandler_List(t *testing.T) {
	ts := testutil.NewTestServer(t)

	director := testutil.NewDirectorBuilder().Build(t, ts.DB.DB)
	for i := 1; i <= 25; i++ {
		testutil.NewMovieBuilder().
			WithTitle(fmt.Sprintf("Film %02d", i)).
			WithDirector(director).
			Build(t, ts.DB.DB)
	}

	list := func(t *testing.T, query string) (*http.Response, movieListResponse) {
		t.Helper()
		resp := testutil.Do(t, testutil.CreateAuthenticatedRequest(t, http.MethodGet, ts.APIURL("/movie"+query), nil, ""))
		var body movieListResponse
		if resp.StatusCode == http.StatusOK {
			testutil.AssertJSONResponse(t, resp, &body)
		}
		return resp, body
	}

	t.Run("default cursor page", func(t *testing.T) {
		resp, body := list(t, "")
		require.Equal(t, http.StatusOK, resp.StatusCode)
		assert.Len(t, body.Data, 10)
		assert.Equal(t, int64(25), body.Count)
		require.NotNil(t, body.NextCursor)
		assert.Equal(t, body.Data[9].ID, *body.NextCursor)
	})

	t.Run("offset page", func(t *testing.T) {
		resp, body := list(t, "?page=3&take=10")
		require.Equal(t, http.StatusOK, resp.StatusCode)
		assert.Len(t, body.Data, 5)
		assert.Equal(t, "Film 21", body.Data[0].Title)
		assert.Nil(t, body.NextCursor)
	})

	t.Run("cursor after id", func(t *testing.T) {
		_, first := list(t, "?take=5")
		require.NotNil(t, first.NextCursor)

		resp, body := list(t, fmt.Sprintf("?take=5&id=%d", *first.NextCursor))
		require.Equal(t, http.StatusOK, resp.StatusCode)
		require.Len(t, body.Data, 5)
		assert.Equal(t, "Film 06", body.Data[0].Title)
	})

	t.Run("descending", func(t *testing.T) {
		_, body := list(t, "?order=DESC&take=3")
		require.Len(t, body.Data, 3)
		assert.Equal(t, "Film 25", body.Data[0].Title)
	})

	t.Run("title filter", func(t *testing.T) {
		_, body := list(t, "?title=Film%201")
		assert.Equal(t, int64(10), body.Count, "Film 10 through Film 19")
	})

	t.Run("page with order is rejected", func(t *testing.T) {
		resp, _ := list(t, "?page=1&order=ASC")
		testutil.AssertStatusCode(t, resp, http.StatusBadRequest)
	})

	t.Run("take out of range", func(t *testing.T) {
		resp, _ := list(t, "?take=500")
		testutil.AssertStatusCode(t, resp, http.StatusBadRequest)
	})
}

func TestEndToEnd_NonAdminCannotCreateMovie(t *testing.T) {
	ts := testutil.NewTestServer(t)

	resp := testutil.Do(t, basicRequest(t, ts, "/auth/register", auth.EncodeBasic("a@x.com", "secret")))
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	tokens := testutil.Login(t, ts, "a@x.com", "secret")
	require.NotEmpty(t, tokens.AccessToken)
	require.NotEmpty(t, tokens.RefreshToken)

	director := testutil.NewDirectorBuilder().Build(t, ts.DB.DB)
	req := testutil.CreateAuthenticatedRequest(t, http.MethodPost, ts.APIURL("/movie"), map[string]interface{}{
		"title":      "Forbidden Film",
		"detail":     "x",
		"directorId": director.ID,
		"genreIds":   []uint{},
	}, tokens.AccessToken)
	testutil.AssertErrorResponse(t, testutil.Do(t, req), http.StatusForbidden, "Forbidden")
}
