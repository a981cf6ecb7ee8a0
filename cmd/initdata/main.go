// Command initdata seeds the tours collection with generated sample data,
// or wipes it. Intended for development and demo environments only.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"natours/internal/clients/mongo"
	"natours/internal/config"
	"natours/internal/logger"
	"natours/internal/services/tours"

	"github.com/brianvoe/gofakeit/v6"
	"go.mongodb.org/mongo-driver/v2/bson"
)

const seedTimeout = 30 * time.Second

var difficulties = []string{"easy", "medium", "difficult"}

func main() {
	count := flag.Int("count", 25, "number of tours to generate")
	wipe := flag.Bool("delete", false, "delete all tours instead of importing")
	seed := flag.Int64("seed", 0, "random seed (0 means non-deterministic)")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, "failed to load config:", err)
		os.Exit(1)
	}
	logger.Init(cfg)
	log := logger.L()

	ctx, cancel := context.WithTimeout(context.Background(), seedTimeout)
	defer cancel()

	if _, _, err := mongo.Init(ctx, cfg, log); err != nil {
		log.Error("failed to connect to mongo", "error", err)
		os.Exit(1)
	}
	defer func() { _ = mongo.Shutdown(context.Background()) }()

	if *wipe {
		n, err := mongo.DB().Collection("tours").DeleteMany(ctx, bson.M{})
		if err != nil {
			log.Error("failed to delete tours", "error", err)
			os.Exit(1)
		}
		log.Info("tours deleted", "count", n.DeletedCount)
		return
	}

	if *seed != 0 {
		gofakeit.Seed(*seed)
	}

	repo, err := mongo.NewToursRepo(ctx, mongo.DB())
	if err != nil {
		log.Error(tours.ErrCreateToursRepo.Error(), "error", err)
		os.Exit(1)
	}
	svc := tours.NewService(repo, log)

	created := 0
	for i := 0; i < *count; i++ {
		req := fakeTour()
		if _, err := svc.Create(ctx, req); err != nil {
			log.Warn("skipping tour", "name", req.Name, "error", err)
			continue
		}
		created++
	}
	log.Info("tours imported", "count", created)
}

func fakeTour() tours.CreateTourRequest {
	name := fmt.Sprintf("The %s %s", gofakeit.AdjectiveDescriptive(), gofakeit.NounConcrete())
	if len(name) < 10 {
		name += " Adventure"
	}
	rating := 3.5 + gofakeit.Float64Range(0, 1.5)
	return tours.CreateTourRequest{
		Name:            name,
		Duration:        gofakeit.Number(3, 21),
		MaxGroupSize:    gofakeit.Number(5, 30),
		Difficulty:      difficulties[gofakeit.Number(0, len(difficulties)-1)],
		Price:           float64(gofakeit.Number(297, 2997)),
		Summary:         gofakeit.Sentence(8),
		Description:     gofakeit.Paragraph(1, 3, 12, " "),
		ImageCover:      fmt.Sprintf("tour-%d-cover.jpg", gofakeit.Number(1, 9)),
		RatingsAverage:  float64(int(rating*10)) / 10,
		RatingsQuantity: gofakeit.Number(0, 150),
		StartDates:      []time.Time{gofakeit.DateRange(time.Now(), time.Now().AddDate(1, 0, 0))},
		StartLocation: &tours.Location{
			Description: gofakeit.City(),
			Coordinates: []float64{gofakeit.Longitude(), gofakeit.Latitude()},
			Address:     gofakeit.Address().Address,
		},
	}
}
