// Command watch follows one post's comment thread from the terminal,
// re-rendering the tree as realtime events arrive. With credentials it can
// also submit comments and reactions.
package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"

	"github.com/shakil-official/comment-system/pkg/channel"
	"github.com/shakil-official/comment-system/pkg/client"
	"github.com/shakil-official/comment-system/pkg/models"
	"github.com/shakil-official/comment-system/pkg/thread"
	"github.com/shakil-official/comment-system/pkg/view"
)

func main() {
	godotenv.Load()

	apiURL := flag.String("api", envOr("API_URL", "http://localhost:8082"), "REST base URL")
	wsURL := flag.String("ws", envOr("WS_URL", "ws://localhost:8082/ws"), "websocket URL")
	postID := flag.String("post", "", "post id to watch")
	email := flag.String("email", os.Getenv("EMAIL"), "login email (optional)")
	password := flag.String("password", os.Getenv("PASSWORD"), "login password (optional)")
	flag.Parse()

	if *postID == "" {
		log.Fatal("[WATCH] -post is required")
	}

	ctx := context.Background()
	api := client.New(*apiURL)

	dialURL := *wsURL
	if *email != "" {
		creds, err := api.Login(ctx, *email, *password)
		if err != nil {
			log.Fatalf("[WATCH] login failed: %v", err)
		}
		api.SetToken(creds.Token)
		dialURL = *wsURL + "?token=" + creds.Token
		log.Printf("[WATCH] logged in as %s", creds.Email)
	}

	var ctrl *view.Controller
	ctrl = view.New(api, view.WithOnChange(func() {
		render(ctrl)
	}))
	defer ctrl.Close()

	if err := ctrl.Load(ctx, *postID); err != nil {
		log.Fatalf("[WATCH] load failed: %v", err)
	}

	ch := channel.Open(dialURL, *postID, ctrl)
	defer ch.Close()

	render(ctrl)
	repl(ctx, ctrl)
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func render(ctrl *view.Controller) {
	post := ctrl.Post()
	page, totalPages := ctrl.Page()

	fmt.Printf("\n== %s (page %d/%d) ==\n", post.Title, page, totalPages)
	printTree(ctrl.Comments(), 0)
	fmt.Print("> ")
}

func printTree(comments []models.Comment, depth int) {
	indent := strings.Repeat("  ", depth)
	for _, c := range comments {
		fmt.Printf("%s[%s] %s: %s (+%d/-%d)\n",
			indent, c.ID, c.AuthorName(), c.Message,
			int(c.FavoritesCount), int(c.DislikesCount))
		printTree(c.Children, depth+1)
	}
}

func repl(ctx context.Context, ctrl *view.Controller) {
	scanner := bufio.NewScanner(os.Stdin)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			fmt.Print("> ")
			continue
		}

		var err error
		switch {
		case line == "/quit":
			return
		case strings.HasPrefix(line, "/page "):
			var n int
			n, err = strconv.Atoi(strings.TrimSpace(line[6:]))
			if err == nil {
				err = ctrl.LoadPage(ctx, n)
			}
		case strings.HasPrefix(line, "/like "):
			err = ctrl.ToggleReaction(ctx, strings.TrimSpace(line[6:]), thread.Like)
		case strings.HasPrefix(line, "/dislike "):
			err = ctrl.ToggleReaction(ctx, strings.TrimSpace(line[9:]), thread.Dislike)
		case strings.HasPrefix(line, "/reply "):
			id, msg, ok := splitIDMessage(line[7:])
			if !ok {
				err = fmt.Errorf("usage: /reply <id> <message>")
				break
			}
			err = ctrl.SubmitComment(ctx, msg, &id)
		case strings.HasPrefix(line, "/edit "):
			id, msg, ok := splitIDMessage(line[6:])
			if !ok {
				err = fmt.Errorf("usage: /edit <id> <message>")
				break
			}
			err = ctrl.EditComment(ctx, id, msg)
		case strings.HasPrefix(line, "/delete "):
			err = ctrl.DeleteComment(ctx, strings.TrimSpace(line[8:]))
		default:
			err = ctrl.SubmitComment(ctx, line, nil)
		}

		if err != nil {
			fmt.Printf("error: %v\n", err)
		}
		fmt.Print("> ")
	}
}

func splitIDMessage(s string) (id, msg string, ok bool) {
	parts := strings.SplitN(strings.TrimSpace(s), " ", 2)
	if len(parts) != 2 {
		return "", "", false
	}
	return parts[0], strings.TrimSpace(parts[1]), true
}
