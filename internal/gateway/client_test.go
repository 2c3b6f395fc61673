package gateway_test

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"iteminsight/internal/core"
	"iteminsight/internal/gateway"
)

func newClient(t *testing.T, url string) *gateway.Client {
	t.Helper()

	c := &gateway.Client{
		Logger: slog.Default(),
		Config: &core.Config{APIURL: url},
	}
	require.NoError(t, c.Init(t.Context()))
	t.Cleanup(func() { _ = c.Shutdown(t.Context()) })

	return c
}

func TestListPosts(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/posts", r.URL.Path)
		require.Equal(t, "2", r.URL.Query().Get("page"))
		require.Equal(t, "10", r.URL.Query().Get("limit"))
		require.Equal(t, "desc", r.URL.Query().Get("sort"))
		require.Equal(t, "fashion", r.URL.Query().Get("category"))

		w.Header().Set("Content-Type", "application/json")
		io.WriteString(w, `{"success":true,"data":[{"_id":"p1","title":"Linen Shirt","category":"fashion","likesCount":3,"isLiked":true}]}`)
	}))
	defer srv.Close()

	posts, err := newClient(t, srv.URL).ListPosts(t.Context(), core.ListPostsParams{
		Page:     2,
		PageSize: 10,
		Category: "fashion",
		Sort:     core.SortNewest,
	})
	require.NoError(t, err)
	require.Len(t, posts, 1)
	require.Equal(t, "p1", posts[0].ID)
	require.Equal(t, 3, posts[0].LikeCount)
	require.True(t, posts[0].ViewerHasLiked)
}

func TestListPosts_OmitsEmptyCategory(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.False(t, r.URL.Query().Has("category"))
		io.WriteString(w, `{"success":true,"data":[]}`)
	}))
	defer srv.Close()

	_, err := newClient(t, srv.URL).ListPosts(t.Context(), core.ListPostsParams{
		Page: 1, PageSize: 10, Category: core.CategoryAll, Sort: core.SortNewest,
	})
	require.NoError(t, err)
}

func TestApplicationRejection(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		io.WriteString(w, `{"success":false,"message":"category is required"}`)
	}))
	defer srv.Close()

	_, err := newClient(t, srv.URL).ListPosts(t.Context(), core.ListPostsParams{Page: 1, PageSize: 10})
	require.Error(t, err)

	var apiErr *core.APIError
	require.ErrorAs(t, err, &apiErr)
	require.Equal(t, http.StatusBadRequest, apiErr.Status)
	require.Equal(t, "category is required", apiErr.Message)
	require.False(t, core.IsConnectivity(err))
}

func TestSuccessFalseWithOKStatus(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		io.WriteString(w, `{"success":false,"message":"post not found"}`)
	}))
	defer srv.Close()

	_, err := newClient(t, srv.URL).GetPost(t.Context(), "nope")
	require.Error(t, err)

	var apiErr *core.APIError
	require.ErrorAs(t, err, &apiErr)
	require.Equal(t, "post not found", apiErr.Message)
}

func TestConnectivityFailure(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(_ http.ResponseWriter, _ *http.Request) {}))
	srv.Close() // nothing listens anymore

	_, err := newClient(t, srv.URL).ListPosts(t.Context(), core.ListPostsParams{Page: 1, PageSize: 10})
	require.Error(t, err)
	require.True(t, core.IsConnectivity(err))

	// A connectivity failure renders the generic message, not a raw
	// dial error.
	require.Equal(t, "cannot connect to server", err.Error())
}

func TestToggleLike(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/api/posts/p1/toggle-like", r.URL.Path)

		var body map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		require.Equal(t, "u1", body["userId"])

		io.WriteString(w, `{"success":true,"liked":true,"likesCount":7}`)
	}))
	defer srv.Close()

	result, err := newClient(t, srv.URL).ToggleLike(t.Context(), "p1", "u1")
	require.NoError(t, err)
	require.True(t, result.Liked)
	require.Equal(t, 7, result.LikeCount)
}

func TestAddComment_SendsBearerToken(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/posts/p1/comments", r.URL.Path)
		require.Equal(t, "Bearer tok", r.Header.Get("Authorization"))

		var body map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		require.Equal(t, "nice shirt", body["text"])

		io.WriteString(w, `{"success":true,"comment":{"_id":"c1","postId":"p1","text":"nice shirt"}}`)
	}))
	defer srv.Close()

	comment, err := newClient(t, srv.URL).AddComment(t.Context(), "p1", "nice shirt", "tok")
	require.NoError(t, err)
	require.Equal(t, "c1", comment.ID)
}

func TestDeleteComment(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodDelete, r.Method)
		require.Equal(t, "/api/posts/p1/comments/c1", r.URL.Path)
		require.Equal(t, "Bearer tok", r.Header.Get("Authorization"))

		io.WriteString(w, `{"success":true}`)
	}))
	defer srv.Close()

	require.NoError(t, newClient(t, srv.URL).DeleteComment(t.Context(), "p1", "c1", "tok"))
}

func TestListBookmarks_NormalizesBothShapes(t *testing.T) {
	t.Parallel()

	t.Run("envelope", func(t *testing.T) {
		t.Parallel()

		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			require.Equal(t, "/api/posts/bookmarks/u1", r.URL.Path)
			io.WriteString(w, `{"success":true,"data":[{"_id":"p1","title":"One"}]}`)
		}))
		defer srv.Close()

		posts, err := newClient(t, srv.URL).ListBookmarks(t.Context(), "u1")
		require.NoError(t, err)
		require.Len(t, posts, 1)
		require.Equal(t, "p1", posts[0].ID)
	})

	t.Run("bare array", func(t *testing.T) {
		t.Parallel()

		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			io.WriteString(w, `[{"_id":"p2","title":"Two"}]`)
		}))
		defer srv.Close()

		posts, err := newClient(t, srv.URL).ListBookmarks(t.Context(), "u1")
		require.NoError(t, err)
		require.Len(t, posts, 1)
		require.Equal(t, "p2", posts[0].ID)
	})
}

func TestLogin(t *testing.T) {
	t.Parallel()

	t.Run("success", func(t *testing.T) {
		t.Parallel()

		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			require.Equal(t, "/api/login", r.URL.Path)

			var body map[string]string
			require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
			require.Equal(t, "ann@example.com", body["email"])

			io.WriteString(w, `{"token":"tok","user":{"id":"u1","email":"ann@example.com","username":"ann","avatarUrl":"https://cdn.example/ann.png"}}`)
		}))
		defer srv.Close()

		token, user, err := newClient(t, srv.URL).Login(t.Context(), "ann@example.com", "secret1")
		require.NoError(t, err)
		require.Equal(t, "tok", token)
		require.Equal(t, "u1", user.ID)
		require.Equal(t, "ann", user.Username)
	})

	t.Run("bad credentials", func(t *testing.T) {
		t.Parallel()

		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusUnauthorized)
			io.WriteString(w, `{"message":"Invalid email or password"}`)
		}))
		defer srv.Close()

		_, _, err := newClient(t, srv.URL).Login(t.Context(), "ann@example.com", "wrong")

		var apiErr *core.APIError
		require.ErrorAs(t, err, &apiErr)
		require.Equal(t, "Invalid email or password", apiErr.Message)
	})
}

func TestCreatePost_Multipart(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/posts", r.URL.Path)
		require.Equal(t, "Bearer tok", r.Header.Get("Authorization"))
		require.NoError(t, r.ParseMultipartForm(1<<20))

		require.Equal(t, "Linen Shirt", r.FormValue("title"))
		require.Equal(t, "fashion", r.FormValue("category"))

		var blocks []core.Block
		require.NoError(t, json.Unmarshal([]byte(r.FormValue("blocks")), &blocks))
		require.Equal(t, "so soft", blocks[0].Text)

		var links []core.ProductLink
		require.NoError(t, json.Unmarshal([]byte(r.FormValue("productLinks")), &links))
		require.Equal(t, "Shopee", links[0].Name)

		files := r.MultipartForm.File["images"]
		require.Len(t, files, 2)
		require.Equal(t, "a.jpg", files[0].Filename)

		io.WriteString(w, `{"success":true,"data":{"_id":"p9","slug":"linen-shirt"}}`)
	}))
	defer srv.Close()

	post, err := newClient(t, srv.URL).CreatePost(t.Context(), core.CreatePostParams{
		Title:        "Linen Shirt",
		Subtitle:     "a review",
		Category:     "fashion",
		Blocks:       []core.Block{{Type: "paragraph", Text: "so soft"}},
		ProductLinks: []core.ProductLink{{Name: "Shopee", URL: "https://shopee.example/x"}},
		Images: []core.Upload{
			{Name: "a.jpg", Reader: strings.NewReader("jpeg-bytes")},
			{Name: "b.jpg", Reader: strings.NewReader("jpeg-bytes")},
		},
		Token: "tok",
	})
	require.NoError(t, err)
	require.Equal(t, "linen-shirt", post.Slug)
}

func TestUpdateAvatar(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPut, r.Method)
		require.Equal(t, "/api/avatar/u1", r.URL.Path)
		require.NoError(t, r.ParseMultipartForm(1<<20))

		files := r.MultipartForm.File["avatar"]
		require.Len(t, files, 1)
		require.Equal(t, "me.png", files[0].Filename)

		io.WriteString(w, `{"avatarUrl":"https://cdn.example/me.png"}`)
	}))
	defer srv.Close()

	url, err := newClient(t, srv.URL).UpdateAvatar(t.Context(), "u1", core.Upload{
		Name:   "me.png",
		Reader: strings.NewReader("png-bytes"),
	})
	require.NoError(t, err)
	require.Equal(t, "https://cdn.example/me.png", url)
}

func TestChangePassword_SurfacesServerMessage(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/user/password/u1", r.URL.Path)
		w.WriteHeader(http.StatusBadRequest)
		io.WriteString(w, `{"message":"Current password is incorrect"}`)
	}))
	defer srv.Close()

	err := newClient(t, srv.URL).ChangePassword(t.Context(), "u1", "wrong", "newpass1")

	var apiErr *core.APIError
	require.ErrorAs(t, err, &apiErr)
	require.Equal(t, "Current password is incorrect", apiErr.Message)
}
