// Mockbackend impersonates the messages collection of the REST store so the
// startup probe can be exercised locally without a real project.
//
// Usage:
//
//	go run mockbackend.go -port 54321 -get 200 -post 201
//
// Then point supabase.url in config.json at http://localhost:54321.
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"sync"

	"github.com/google/uuid"
)

type row struct {
	ID            string  `json:"id"`
	AuthorSession string  `json:"author_session"`
	Name          string  `json:"name"`
	School        *string `json:"school"`
	Avatar        *string `json:"avatar"`
	Text          string  `json:"text"`
	Type          string  `json:"type"`
	TS            string  `json:"ts"`
}

func main() {
	port := flag.Int("port", 54321, "port to listen on")
	getStatus := flag.Int("get", http.StatusOK, "status returned for reads")
	postStatus := flag.Int("post", http.StatusCreated, "status returned for inserts")
	key := flag.String("key", "", "required apikey (empty accepts any)")
	flag.Parse()

	log := slog.New(slog.NewTextHandler(os.Stdout, nil))

	var (
		mu   sync.Mutex
		rows []row
	)

	mux := http.NewServeMux()
	mux.HandleFunc("/rest/v1/messages", func(w http.ResponseWriter, r *http.Request) {
		log.Info("request",
			slog.String("method", r.Method),
			slog.String("query", r.URL.RawQuery),
			slog.String("apikey", r.Header.Get("apikey")))

		if *key != "" && r.Header.Get("apikey") != *key {
			http.Error(w, `{"message":"Invalid API key"}`, http.StatusUnauthorized)
			return
		}

		w.Header().Set("Content-Type", "application/json")

		switch r.Method {
		case http.MethodGet:
			mu.Lock()
			out := rows
			if len(out) > 1 {
				out = out[:1]
			}
			b, _ := json.Marshal(out)
			mu.Unlock()

			w.WriteHeader(*getStatus)
			w.Write(b)

		case http.MethodPost:
			body, err := io.ReadAll(r.Body)
			if err != nil {
				http.Error(w, "bad request", http.StatusBadRequest)
				return
			}

			var in row
			if err := json.Unmarshal(body, &in); err != nil {
				http.Error(w, `{"message":"invalid json"}`, http.StatusBadRequest)
				return
			}
			in.ID = uuid.NewString()

			mu.Lock()
			rows = append(rows, in)
			mu.Unlock()

			b, _ := json.Marshal([]row{in})
			w.WriteHeader(*postStatus)
			w.Write(b)

		default:
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		}
	})

	addr := fmt.Sprintf(":%d", *port)
	log.Info("starting mock backend", slog.String("addr", addr))
	if err := http.ListenAndServe(addr, mux); err != nil {
		log.Error("server failed", slog.Any("err", err))
		os.Exit(1)
	}
}
