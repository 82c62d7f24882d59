package showgen_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/okian/lightshow/internal/beatmap"
	"github.com/okian/lightshow/internal/domain/model"
	"github.com/okian/lightshow/internal/showgen"
	"github.com/okian/lightshow/pkg/logger"
	. "github.com/smartystreets/goconvey/convey"
)

func init() {
	if err := logger.Init(logger.WithWriter(os.Stderr), logger.WithLevel("error")); err != nil {
		panic(err)
	}
}

func TestGenerate(t *testing.T) {
	Convey("Given a show configuration", t, func() {
		cfg := &showgen.Config{Beats: 32, Density: 2, Seed: 42, Gradients: true}

		Convey("When generated twice with the same seed", func() {
			a := showgen.Generate(cfg)
			b := showgen.Generate(cfg)

			Convey("Then both shows are identical", func() {
				So(len(a.Events), ShouldEqual, len(b.Events))
				for i := range a.Events {
					So(a.Events[i].ID, ShouldEqual, b.Events[i].ID)
					So(a.Events[i].Type, ShouldEqual, b.Events[i].Type)
					So(a.Events[i].Value, ShouldEqual, b.Events[i].Value)
					So(a.Events[i].Time, ShouldEqual, b.Events[i].Time)
				}
			})
		})

		Convey("When generated with another seed", func() {
			a := showgen.Generate(cfg)
			other := *cfg
			other.Seed = 7
			b := showgen.Generate(&other)

			Convey("Then the IDs differ", func() {
				So(a.Events[0].ID, ShouldNotEqual, b.Events[0].ID)
			})
		})

		Convey("When inspecting a generated show", func() {
			bm := showgen.Generate(cfg)

			Convey("Then events are valid, ordered and within the show", func() {
				So(bm.Version, ShouldEqual, beatmap.DefaultVersion)
				So(sort.SliceIsSorted(bm.Events, func(i, j int) bool { return bm.Events[i].Time < bm.Events[j].Time }), ShouldBeTrue)

				ids := make(map[string]bool, len(bm.Events))
				lighting := 0
				for _, ev := range bm.Events {
					So(ev.Validate(), ShouldBeNil)
					So(ev.Time, ShouldBeLessThan, 32)
					So(ids[ev.ID], ShouldBeFalse)
					ids[ev.ID] = true
					if ev.IsLighting() {
						lighting++
					}
				}
				So(lighting, ShouldEqual, 64)
			})

			Convey("Then the rhythm events land on their beats", func() {
				var boosts, zooms []float64
				for _, ev := range bm.Events {
					switch ev.Type {
					case model.TypeBoost:
						boosts = append(boosts, ev.Time)
					case model.TypeRingZoom:
						zooms = append(zooms, ev.Time)
					}
				}
				So(boosts, ShouldResemble, []float64{0, 16})
				So(zooms, ShouldResemble, []float64{0, 8, 16, 24})
			})
		})

		Convey("When gradients are disabled", func() {
			plain := *cfg
			plain.Gradients = false
			bm := showgen.Generate(&plain)

			Convey("Then no custom data is emitted", func() {
				for _, ev := range bm.Events {
					So(ev.Custom, ShouldBeNil)
				}
			})
		})
	})
}

// fakeService records posted events and answers like the light show API.
type fakeService struct {
	mu         sync.Mutex
	seen       map[string]bool
	posted     []map[string]any
	beat       float64
	reject     bool
	dispatched int64
}

func (f *fakeService) handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/stats", func(w http.ResponseWriter, _ *http.Request) {
		f.mu.Lock()
		defer f.mu.Unlock()
		_ = json.NewEncoder(w).Encode(map[string]any{"started": true, "beat": f.beat, "dispatched": f.dispatched})
	})
	mux.HandleFunc("/events", func(w http.ResponseWriter, r *http.Request) {
		var body map[string]any
		_ = json.NewDecoder(r.Body).Decode(&body)
		id, _ := body["event_id"].(string)

		f.mu.Lock()
		defer f.mu.Unlock()
		if f.reject {
			w.WriteHeader(http.StatusTooManyRequests)
			_ = json.NewEncoder(w).Encode(map[string]any{"code": "backpressure"})
			return
		}
		if f.seen[id] {
			_ = json.NewEncoder(w).Encode(map[string]any{"status": "duplicate", "event_id": id, "duplicate": true})
			return
		}
		f.seen[id] = true
		f.posted = append(f.posted, body)
		f.dispatched++
		w.WriteHeader(http.StatusAccepted)
		_ = json.NewEncoder(w).Encode(map[string]any{"status": "accepted", "event_id": id})
	})
	return mux
}

func TestRun(t *testing.T) {
	Convey("Given a running service", t, func() {
		fake := &fakeService{seen: make(map[string]bool), beat: 100}
		srv := httptest.NewServer(fake.handler())
		defer srv.Close()

		out := filepath.Join(t.TempDir(), "shows", "Expert.dat")
		cfg := &showgen.Config{
			BaseURL: srv.URL,
			Beats:   8,
			Density: 1,
			Seed:    3,
			Lead:    4,
			Workers: 3,
			Timeout: time.Second,
			Output:  out,
			Verify:  2 * time.Second,
		}

		Convey("When the show is played", func() {
			stats, err := showgen.Run(context.Background(), cfg)

			Convey("Then every event is accepted and shifted past the service clock", func() {
				So(err, ShouldBeNil)
				So(stats.EventsSubmitted, ShouldEqual, stats.EventsGenerated)
				So(stats.EventsSuccessful, ShouldEqual, stats.EventsGenerated)
				So(stats.EventsFailed, ShouldEqual, 0)
				So(stats.Dispatched, ShouldEqual, int64(stats.EventsGenerated))

				for _, body := range fake.posted {
					So(body["time"], ShouldBeGreaterThanOrEqualTo, 104.0)
				}
			})

			Convey("Then the beatmap file loads back", func() {
				bm, err := beatmap.NewLoader().LoadFile(context.Background(), out)
				So(err, ShouldBeNil)
				So(bm.Events, ShouldHaveLength, stats.EventsGenerated)
			})

			Convey("Then replaying the same seed is deduplicated", func() {
				again, err := showgen.Run(context.Background(), cfg)
				So(err, ShouldBeNil)
				So(again.EventsDuplicate, ShouldEqual, again.EventsGenerated)
				So(again.EventsSuccessful, ShouldEqual, 0)
			})
		})

		Convey("When the service applies backpressure", func() {
			fake.reject = true
			cfg.Verify = 0
			stats, err := showgen.Run(context.Background(), cfg)

			Convey("Then failures are counted", func() {
				So(err, ShouldBeNil)
				So(stats.EventsFailed, ShouldEqual, stats.EventsGenerated)
			})
		})
	})

	Convey("Given no service", t, func() {
		cfg := &showgen.Config{BaseURL: "http://127.0.0.1:1", Beats: 4, Density: 1, Workers: 1, Timeout: 200 * time.Millisecond}

		Convey("Then Run fails the service check", func() {
			_, err := showgen.Run(context.Background(), cfg)
			So(err, ShouldNotBeNil)
		})
	})
}
