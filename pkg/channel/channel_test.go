package channel

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shakil-official/comment-system/pkg/envelope"
	"github.com/shakil-official/comment-system/pkg/models"
)

type recordingHandler struct {
	news      []models.Comment
	updates   []models.Comment
	deletes   []string
	reactions []envelope.ReactionPayload
}

func (r *recordingHandler) RemoteNew(c models.Comment)                { r.news = append(r.news, c) }
func (r *recordingHandler) RemoteUpdate(c models.Comment)             { r.updates = append(r.updates, c) }
func (r *recordingHandler) RemoteDelete(id string)                    { r.deletes = append(r.deletes, id) }
func (r *recordingHandler) RemoteReaction(p envelope.ReactionPayload) { r.reactions = append(r.reactions, p) }

func TestDispatchRoutesEvents(t *testing.T) {
	h := &recordingHandler{}

	Dispatch(h, []byte(`{"event":"comment:new","post":"p1","data":{"_id":"c1","message":"hi","parent":null}}`))
	Dispatch(h, []byte(`{"event":"comment:update","post":"p1","data":{"_id":"c1","message":"edited"}}`))
	Dispatch(h, []byte(`{"event":"comment:delete","post":"p1","data":{"commentId":"c1"}}`))
	Dispatch(h, []byte(`{"event":"comment:reaction","post":"p1","data":{"commentId":"c1","favorites":["u1"],"favoritesCount":1}}`))

	require.Len(t, h.news, 1)
	assert.Equal(t, "c1", h.news[0].ID)
	require.Len(t, h.updates, 1)
	assert.Equal(t, "edited", h.updates[0].Message)
	assert.Equal(t, []string{"c1"}, h.deletes)
	require.Len(t, h.reactions, 1)
	assert.EqualValues(t, 1, h.reactions[0].FavoritesCount)
}

func TestDispatchDropsMalformedAndUnknown(t *testing.T) {
	h := &recordingHandler{}

	Dispatch(h, []byte(`not json`))
	Dispatch(h, []byte(`{"event":"pong"}`))
	Dispatch(h, []byte(`{"event":"comment:new","data":{"message":"no id"}}`))
	Dispatch(h, []byte(`{"event":"comment:delete","data":{}}`))

	assert.Empty(t, h.news)
	assert.Empty(t, h.updates)
	assert.Empty(t, h.deletes)
	assert.Empty(t, h.reactions)
}
