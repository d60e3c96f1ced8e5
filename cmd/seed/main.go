// Seed exercises a running instance end to end with generated data: users,
// single uploads, carousel posts, stories, likes, comments, follows, then
// the feed and activity reads. Point it at an instance with BASE_URL
// (default http://localhost:8080).
package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"log"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"os"
	"time"

	"github.com/brianvoe/gofakeit/v6"
)

var baseURL = "http://localhost:8080"

func main() {
	gofakeit.Seed(time.Now().UnixNano())
	if v := os.Getenv("BASE_URL"); v != "" {
		baseURL = v
	}

	// --- USERS ---

	alice := createUser()
	bob := createUser()
	getUser(alice, alice)

	// --- MEDIA ---

	healthCheck()
	token := uploadMedia(alice)
	if token != "" {
		getMediaRedirect(alice, token)
	}

	// --- POSTS ---

	postID := createPost(alice)
	if postID == "" {
		log.Fatal("could not create a post, aborting seeding process")
	}
	getPost(alice, postID)

	// --- STORIES ---

	createStory(bob)
	listStories(alice, bob)

	// --- ENGAGEMENT ---

	likePost(bob, postID)
	addComment(bob, postID)
	followUser(bob, alice)

	// --- READS ---

	getFeed(alice)
	getUserPosts(bob, alice)
	getActivities(alice)
}

func do(req *http.Request, uid string) *http.Response {
	// the service only checks token presence; the uid doubles as the token
	req.Header.Set("Authorization", "Bearer "+uid)
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		log.Printf("error calling %s: %v", req.URL.Path, err)
		return nil
	}
	return resp
}

func postJSON(path, uid string, payload any) *http.Response {
	data, _ := json.Marshal(payload)
	req, _ := http.NewRequest("POST", baseURL+path, bytes.NewBuffer(data))
	req.Header.Set("Content-Type", "application/json")
	return do(req, uid)
}

// fakeImage builds a multipart body with n generated jpeg parts under field,
// plus a caption with a hashtag and a mention so discovery extraction has
// something to chew on.
func fakeImage(field string, n int) (*bytes.Buffer, string) {
	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	for i := 0; i < n; i++ {
		h := textproto.MIMEHeader{}
		h.Set("Content-Disposition",
			fmt.Sprintf(`form-data; name=%q; filename="%s.jpg"`, field, gofakeit.Word()))
		h.Set("Content-Type", "image/jpeg")
		part, _ := writer.CreatePart(h)
		_, _ = part.Write(gofakeit.ImageJpeg(64, 64))
	}
	_ = writer.WriteField("caption",
		fmt.Sprintf("%s #%s @%s", gofakeit.HipsterSentence(4), gofakeit.Word(), gofakeit.Username()))
	_ = writer.Close()
	return body, writer.FormDataContentType()
}

func createUser() string {
	uid := gofakeit.Username()
	payload := map[string]any{
		"user_id":   uid,
		"username":  uid,
		"full_name": gofakeit.Name(),
		"email":     gofakeit.Email(),
		"bio":       gofakeit.HipsterSentence(6),
	}
	resp := postJSON("/create-user/", uid, payload)
	if resp == nil {
		return uid
	}
	defer resp.Body.Close()
	log.Printf("createUser: %s status: %s", uid, resp.Status)
	return uid
}

func getUser(uid, target string) {
	req, _ := http.NewRequest("GET", baseURL+"/user/"+target, nil)
	resp := do(req, uid)
	if resp == nil {
		return
	}
	defer resp.Body.Close()
	log.Println("getUser status:", resp.Status)
}

func healthCheck() {
	resp, err := http.Get(baseURL + "/health")
	if err != nil {
		log.Println("error in healthCheck:", err)
		return
	}
	defer resp.Body.Close()
	log.Println("healthCheck status:", resp.Status)
}

func uploadMedia(uid string) string {
	body, contentType := fakeImage("file", 1)
	req, _ := http.NewRequest("POST", baseURL+"/upload/", body)
	req.Header.Set("Content-Type", contentType)
	resp := do(req, uid)
	if resp == nil {
		return ""
	}
	defer resp.Body.Close()
	var result struct {
		Token string `json:"token"`
	}
	_ = json.NewDecoder(resp.Body).Decode(&result)
	log.Printf("uploadMedia status: %s token: %s", resp.Status, result.Token)
	return result.Token
}

func getMediaRedirect(uid, token string) {
	client := &http.Client{CheckRedirect: func(*http.Request, []*http.Request) error {
		return http.ErrUseLastResponse
	}}
	req, _ := http.NewRequest("GET", baseURL+"/media/"+token, nil)
	req.Header.Set("Authorization", "Bearer "+uid)
	resp, err := client.Do(req)
	if err != nil {
		log.Println("error in getMediaRedirect:", err)
		return
	}
	defer resp.Body.Close()
	log.Printf("getMediaRedirect status: %s location: %s", resp.Status, resp.Header.Get("Location"))
}

func createPost(uid string) string {
	body, contentType := fakeImage("files", 3)
	req, _ := http.NewRequest("POST", baseURL+"/upload-post/", body)
	req.Header.Set("Content-Type", contentType)
	resp := do(req, uid)
	if resp == nil {
		return ""
	}
	defer resp.Body.Close()
	var result struct {
		Post struct {
			ID string `json:"id"`
		} `json:"post"`
		Skipped int `json:"skipped_files"`
	}
	_ = json.NewDecoder(resp.Body).Decode(&result)
	log.Printf("createPost status: %s id: %s skipped: %d", resp.Status, result.Post.ID, result.Skipped)
	return result.Post.ID
}

func getPost(uid, postID string) {
	req, _ := http.NewRequest("GET", baseURL+"/post/"+uid+"/"+postID, nil)
	resp := do(req, uid)
	if resp == nil {
		return
	}
	defer resp.Body.Close()
	log.Println("getPost status:", resp.Status)
}

func createStory(uid string) {
	body, contentType := fakeImage("file", 1)
	req, _ := http.NewRequest("POST", baseURL+"/upload-story/", body)
	req.Header.Set("Content-Type", contentType)
	resp := do(req, uid)
	if resp == nil {
		return
	}
	defer resp.Body.Close()
	log.Println("createStory status:", resp.Status)
}

func listStories(uid, target string) {
	req, _ := http.NewRequest("GET", baseURL+"/stories/"+target, nil)
	resp := do(req, uid)
	if resp == nil {
		return
	}
	defer resp.Body.Close()
	log.Println("listStories status:", resp.Status)
}

func likePost(uid, postID string) {
	resp := postJSON("/like-post/", uid, map[string]string{"post_id": postID})
	if resp == nil {
		return
	}
	defer resp.Body.Close()
	log.Println("likePost status:", resp.Status)
}

func addComment(uid, postID string) {
	payload := map[string]string{
		"post_id": postID,
		"text":    fmt.Sprintf("%s #%s", gofakeit.HipsterSentence(5), gofakeit.Word()),
	}
	resp := postJSON("/add-comment/", uid, payload)
	if resp == nil {
		return
	}
	defer resp.Body.Close()
	log.Println("addComment status:", resp.Status)
}

func followUser(uid, target string) {
	resp := postJSON("/follow-user/", uid, map[string]string{"user_id": target})
	if resp == nil {
		return
	}
	defer resp.Body.Close()
	log.Println("followUser status:", resp.Status)
}

func getFeed(uid string) {
	req, _ := http.NewRequest("GET", baseURL+"/feed/?limit=10&offset=0", nil)
	resp := do(req, uid)
	if resp == nil {
		return
	}
	defer resp.Body.Close()
	log.Println("getFeed status:", resp.Status)
}

func getUserPosts(uid, target string) {
	req, _ := http.NewRequest("GET", baseURL+"/user-posts/"+target, nil)
	resp := do(req, uid)
	if resp == nil {
		return
	}
	defer resp.Body.Close()
	log.Println("getUserPosts status:", resp.Status)
}

func getActivities(uid string) {
	req, _ := http.NewRequest("GET", baseURL+"/activities/"+uid, nil)
	resp := do(req, uid)
	if resp == nil {
		return
	}
	defer resp.Body.Close()
	log.Println("getActivities status:", resp.Status)
}
