package ytsentiment

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"gopkg.in/mgo.v2"
	"gopkg.in/mgo.v2/bson"
)

// DatabaseName is the MongoDB database holding one collection per search
// keyword.
const DatabaseName = "sentiment_analysis"

// LikeCount is a comment's like count. The crawler may store it as a number
// or as text such as "1.2K".
type LikeCount float64

// SetBSON implements bson.Setter.
func (lc *LikeCount) SetBSON(raw bson.Raw) error {
	var v interface{}
	if err := raw.Unmarshal(&v); err != nil {
		return err
	}
	switch n := v.(type) {
	case nil:
		*lc = 0
	case int:
		*lc = LikeCount(n)
	case int64:
		*lc = LikeCount(n)
	case float64:
		*lc = LikeCount(n)
	case string:
		f, err := parseLikes(n)
		if err != nil {
			return err
		}
		*lc = LikeCount(f)
	default:
		return fmt.Errorf("unsupported like count %T", v)
	}
	return nil
}

// parseLikes reads counts like "12", "1.2K" or "3M". An empty string is zero.
func parseLikes(s string) (float64, error) {
	s = strings.TrimSpace(strings.ReplaceAll(s, ",", ""))
	if s == "" {
		return 0, nil
	}
	mult := 1.0
	switch strings.ToUpper(s[len(s)-1:]) {
	case "K":
		mult, s = 1e3, s[:len(s)-1]
	case "M":
		mult, s = 1e6, s[:len(s)-1]
	}
	f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0, fmt.Errorf("invalid like count %q: %w", s, err)
	}
	return f * mult, nil
}

// Comment is one stored YouTube comment.
type Comment struct {
	CID    string    `bson:"cid"`
	Text   string    `bson:"text"`
	Time   string    `bson:"time"`
	Author string    `bson:"author"`
	Likes  LikeCount `bson:"nr_likes"`
}

// Video is a stored video with its comments.
type Video struct {
	ID          string    `bson:"_id"`
	Title       string    `bson:"title"`
	Description string    `bson:"description"`
	Likes       LikeCount `bson:"nr_likes"`
	Dislikes    LikeCount `bson:"nr_dislikes"`
	Comments    []Comment `bson:"comments"`
}

// A CommentSource supplies the videos of an analysis session.
type CommentSource interface {
	Videos(ctx context.Context) ([]Video, error)
}

// StaticSource serves videos held in memory.
type StaticSource []Video

// Videos returns the videos.
func (s StaticSource) Videos(ctx context.Context) ([]Video, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return []Video(s), nil
}

// MongoSource reads the videos stored under one keyword.
type MongoSource struct {
	Keyword string
	session *mgo.Session
}

// DialMongo connects to the MongoDB server at url and selects the
// collection of keyword.
func DialMongo(url, keyword string) (*MongoSource, error) {
	if keyword == "" {
		return nil, fmt.Errorf("empty keyword")
	}
	session, err := mgo.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("connecting to %s: %w", url, err)
	}
	session.SetMode(mgo.Monotonic, true)
	return &MongoSource{Keyword: keyword, session: session}, nil
}

// Close ends the session.
func (ms *MongoSource) Close() {
	ms.session.Close()
}

// Keywords lists the keywords with stored videos.
func (ms *MongoSource) Keywords() ([]string, error) {
	s := ms.session.Copy()
	defer s.Close()
	return s.DB(DatabaseName).CollectionNames()
}

// Videos returns every video stored under the keyword. A keyword that was
// never crawled is an error.
func (ms *MongoSource) Videos(ctx context.Context) ([]Video, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	keywords, err := ms.Keywords()
	if err != nil {
		return nil, err
	}
	found := false
	for _, k := range keywords {
		if k == ms.Keyword {
			found = true
			break
		}
	}
	if !found {
		return nil, fmt.Errorf("collection %q does not exist, extract data first", ms.Keyword)
	}

	s := ms.session.Copy()
	defer s.Close()

	var videos []Video
	if err := s.DB(DatabaseName).C(ms.Keyword).Find(bson.M{}).All(&videos); err != nil {
		return nil, fmt.Errorf("reading %s: %w", ms.Keyword, err)
	}
	return videos, nil
}

// WriteComment adds c to the comment set of video, creating the video
// document if needed. Adding the same comment twice stores it once.
func (ms *MongoSource) WriteComment(video Video, c Comment) error {
	s := ms.session.Copy()
	defer s.Close()

	selector := bson.M{
		"_id":         video.ID,
		"title":       video.Title,
		"description": video.Description,
		"nr_likes":    float64(video.Likes),
		"nr_dislikes": float64(video.Dislikes),
	}
	update := bson.M{
		"$addToSet": bson.M{
			"comments": bson.M{
				"cid":      c.CID,
				"text":     c.Text,
				"time":     c.Time,
				"author":   c.Author,
				"nr_likes": float64(c.Likes),
			},
		},
	}
	_, err := s.DB(DatabaseName).C(ms.Keyword).Upsert(selector, update)
	return err
}
