package usecase

import (
	"context"
	"sync"

	"Sulam-App/internal/domain/helper"
	"Sulam-App/internal/domain/model"
	"Sulam-App/internal/domain/service"
)

func poi(id string, x, y float64) *model.Place {
	return &model.Place{ID: id, Title: id, Kind: model.KindPOI, Coords: &model.Point{X: x, Y: y}}
}

func newTestCatalog(pois ...*model.Place) *service.Catalog {
	c := service.NewCatalog()
	c.Replace(model.KindPOI, pois)
	return c
}

func newTestProjector() *helper.Projector {
	p, err := helper.NewProjector(model.GeoCalibration{
		TopLeft:     model.LatLng{Lat: 10, Lng: 0},
		BottomRight: model.LatLng{Lat: 0, Lng: 10},
		Width:       100,
		Height:      100,
	})
	if err != nil {
		panic(err)
	}
	return p
}

type stubKnowledge struct {
	summary string
	err     error
	titles  []string
}

func (k *stubKnowledge) Summary(ctx context.Context, title string) (string, error) {
	k.titles = append(k.titles, title)
	return k.summary, k.err
}

type stubAnswers struct {
	mu     sync.Mutex
	answer string
	inputs []service.AnswerInput

	// holdQuestion の質問はコンテキストが取り消されるまで返らない
	holdQuestion string
}

func (a *stubAnswers) Answer(ctx context.Context, in service.AnswerInput) string {
	a.mu.Lock()
	a.inputs = append(a.inputs, in)
	a.mu.Unlock()
	if a.holdQuestion != "" && in.Question == a.holdQuestion {
		<-ctx.Done()
		return model.UnavailableAnswer
	}
	return a.answer
}
