package controllers

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/pminsight/client/internal/eventbus"
	"github.com/pminsight/client/internal/models"
)

func pendingGuide(id int) models.Guide {
	return models.Guide{
		ID:          id,
		Tracking:    "GS-0007",
		Origin:      "Almacén central",
		Destination: "Obra San Isidro",
		Responsible: "Luis Rojas",
		Items:       []models.GuideItem{{Quantity: 4, Description: "cemento"}},
		State:       models.GuidePendiente,
	}
}

func TestDispatchGuidePublishesEvent(t *testing.T) {
	bus := eventbus.New()
	repo := new(MockGuideRepo)

	c := NewGuias(repo, bus)
	defer c.Close()

	repo.On("ListGuides", mock.Anything, models.GuideState("")).
		Return([]models.Guide{pendingGuide(7)}, nil)
	require.NoError(t, c.Load(context.Background(), ""))

	sent := pendingGuide(7)
	sent.State = models.GuideEnviada
	repo.On("UpdateGuideState", mock.Anything, 7, models.GuideEnviada).
		Return(&sent, nil).Once()

	events := countEvents(bus, eventbus.TopicGuideDispatched)
	require.NoError(t, c.Dispatch(context.Background(), 7))

	require.Len(t, *events, 1)
	assert.Equal(t, "GS-0007", (*events)[0].Sequence)
}

func TestDispatchRequiresPendingState(t *testing.T) {
	bus := eventbus.New()
	repo := new(MockGuideRepo)

	c := NewGuias(repo, bus)
	defer c.Close()

	sent := pendingGuide(7)
	sent.State = models.GuideEnviada
	repo.On("ListGuides", mock.Anything, models.GuideState("")).
		Return([]models.Guide{sent}, nil).Once()
	require.NoError(t, c.Load(context.Background(), ""))

	err := c.Dispatch(context.Background(), 7)
	assert.ErrorIs(t, err, ErrForbidden)
	repo.AssertNotCalled(t, "UpdateGuideState", mock.Anything, mock.Anything, mock.Anything)
}

func TestReceiveCompletesLifecycle(t *testing.T) {
	bus := eventbus.New()
	repo := new(MockGuideRepo)

	c := NewGuias(repo, bus)
	defer c.Close()

	sent := pendingGuide(7)
	sent.State = models.GuideEnviada
	repo.On("ListGuides", mock.Anything, models.GuideState("")).
		Return([]models.Guide{sent}, nil).Once()
	require.NoError(t, c.Load(context.Background(), ""))

	received := pendingGuide(7)
	received.State = models.GuideRecibida
	repo.On("UpdateGuideState", mock.Anything, 7, models.GuideRecibida).
		Return(&received, nil).Once()

	require.NoError(t, c.Receive(context.Background(), 7))
	assert.Equal(t, models.GuideRecibida, c.Guides()[0].State)
}

func TestCreateGuideValidates(t *testing.T) {
	bus := eventbus.New()
	repo := new(MockGuideRepo)

	c := NewGuias(repo, bus)
	defer c.Close()

	_, err := c.Create(context.Background(), models.Guide{Origin: "sin items"})
	assert.Error(t, err)
	repo.AssertNotCalled(t, "CreateGuide", mock.Anything, mock.Anything)

	guide := pendingGuide(0)
	created := pendingGuide(8)
	repo.On("CreateGuide", mock.Anything, mock.Anything).Return(&created, nil).Once()

	got, err := c.Create(context.Background(), guide)
	require.NoError(t, err)
	assert.Equal(t, 8, got.ID)
	assert.Len(t, c.Guides(), 1)
}
