package services

import (
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"alpha_backend/internal/models"
	"alpha_backend/internal/repositories"
)

// newTestDB строит *gorm.DB поверх sqlmock: репозитории в тестах
// in-memory, от соединения нужны только Begin/Commit транзакций.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = sqlDB.Close() })

	mock.MatchExpectationsInOrder(false)
	for i := 0; i < 32; i++ {
		mock.ExpectBegin()
		mock.ExpectCommit()
		mock.ExpectRollback()
	}

	db, err := gorm.Open(postgres.New(postgres.Config{
		Conn:                 sqlDB,
		PreferSimpleProtocol: true,
	}), &gorm.Config{})
	require.NoError(t, err)
	return db
}

// --- In-memory репозитории ---

type pair struct{ a, b string }

type fakeUserRepo struct {
	mu        sync.Mutex
	users     map[string]*models.User
	liked     map[pair]bool // userID, podcastID
	library   map[pair]bool
	followers map[pair]bool // channelID, subscriberID
	history   []*models.HistoryEntry
	nextID    int
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{
		users:     make(map[string]*models.User),
		liked:     make(map[pair]bool),
		library:   make(map[pair]bool),
		followers: make(map[pair]bool),
	}
}

func (f *fakeUserRepo) put(user *models.User) *models.User {
	f.mu.Lock()
	defer f.mu.Unlock()
	if user.ID == "" {
		f.nextID++
		user.ID = "user-" + string(rune('a'+f.nextID))
	}
	f.users[user.ID] = user
	return user
}

func (f *fakeUserRepo) FindByID(_ *gorm.DB, id string) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	user, ok := f.users[id]
	if !ok {
		return nil, repositories.ErrUserNotFound
	}
	clone := *user
	return &clone, nil
}

func (f *fakeUserRepo) FindByIDWithRelations(db *gorm.DB, id string) (*models.User, error) {
	return f.FindByID(db, id)
}

func (f *fakeUserRepo) FindByEmail(_ *gorm.DB, email string) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, user := range f.users {
		if user.Email == email {
			clone := *user
			return &clone, nil
		}
	}
	return nil, repositories.ErrUserNotFound
}

func (f *fakeUserRepo) Create(_ *gorm.DB, user *models.User) error {
	f.mu.Lock()
	for _, existing := range f.users {
		if existing.Email == user.Email {
			f.mu.Unlock()
			return repositories.ErrUserAlreadyExists
		}
	}
	f.mu.Unlock()
	f.put(user)
	return nil
}

func (f *fakeUserRepo) Save(_ *gorm.DB, user *models.User) error {
	f.put(user)
	return nil
}

func (f *fakeUserRepo) Delete(_ *gorm.DB, userID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.users, userID)
	return nil
}

func (f *fakeUserRepo) AddLikedPodcast(_ *gorm.DB, userID, podcastID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.liked[pair{userID, podcastID}] = true
	return nil
}

func (f *fakeUserRepo) RemoveLikedPodcast(_ *gorm.DB, userID, podcastID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.liked, pair{userID, podcastID})
	return nil
}

func (f *fakeUserRepo) ListLikedPodcastIDs(_ *gorm.DB, userID string) ([]string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var ids []string
	for p := range f.liked {
		if p.a == userID {
			ids = append(ids, p.b)
		}
	}
	sort.Strings(ids)
	return ids, nil
}

func (f *fakeUserRepo) IsInLibrary(_ *gorm.DB, userID, podcastID string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.library[pair{userID, podcastID}], nil
}

func (f *fakeUserRepo) AddToLibrary(_ *gorm.DB, userID, podcastID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.library[pair{userID, podcastID}] = true
	return nil
}

func (f *fakeUserRepo) RemoveFromLibrary(_ *gorm.DB, userID, podcastID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.library, pair{userID, podcastID})
	return nil
}

func (f *fakeUserRepo) ClearLikesAndLibrary(_ *gorm.DB, userID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for p := range f.liked {
		if p.a == userID {
			delete(f.liked, p)
		}
	}
	for p := range f.library {
		if p.a == userID {
			delete(f.library, p)
		}
	}
	return nil
}

func (f *fakeUserRepo) IsSubscribed(_ *gorm.DB, subscriberID, channelID string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.followers[pair{channelID, subscriberID}], nil
}

func (f *fakeUserRepo) AddFollower(_ *gorm.DB, channelID, subscriberID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.followers[pair{channelID, subscriberID}] = true
	return nil
}

func (f *fakeUserRepo) RemoveFollower(_ *gorm.DB, channelID, subscriberID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.followers, pair{channelID, subscriberID})
	return nil
}

func (f *fakeUserRepo) CountSubscribers(_ *gorm.DB, channelID string) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var count int64
	for p := range f.followers {
		if p.a == channelID {
			count++
		}
	}
	return count, nil
}

func (f *fakeUserRepo) RemoveAllFollows(_ *gorm.DB, userID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for p := range f.followers {
		if p.a == userID || p.b == userID {
			delete(f.followers, p)
		}
	}
	return nil
}

func (f *fakeUserRepo) ListHistory(_ *gorm.DB, userID string) ([]models.HistoryEntry, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var entries []models.HistoryEntry
	for _, e := range f.history {
		if e.UserID == userID {
			entries = append(entries, *e)
		}
	}
	sort.Slice(entries, func(i, j int) bool {
		return entries[i].PlayedAt.After(entries[j].PlayedAt)
	})
	return entries, nil
}

func (f *fakeUserRepo) DeleteHistoryEntry(_ *gorm.DB, userID, podcastID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	kept := f.history[:0]
	for _, e := range f.history {
		if !(e.UserID == userID && e.PodcastID == podcastID) {
			kept = append(kept, e)
		}
	}
	f.history = kept
	return nil
}

func (f *fakeUserRepo) CreateHistoryEntry(_ *gorm.DB, entry *models.HistoryEntry) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	clone := *entry
	f.history = append(f.history, &clone)
	return nil
}

func (f *fakeUserRepo) TrimHistory(db *gorm.DB, userID string, keep int) error {
	entries, _ := f.ListHistory(db, userID)
	if len(entries) <= keep {
		return nil
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	drop := make(map[string]bool)
	for _, e := range entries[keep:] {
		drop[e.PodcastID] = true
	}
	kept := f.history[:0]
	for _, e := range f.history {
		if e.UserID == userID && drop[e.PodcastID] {
			continue
		}
		kept = append(kept, e)
	}
	f.history = kept
	return nil
}

func (f *fakeUserRepo) DeleteHistoryByUser(_ *gorm.DB, userID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	kept := f.history[:0]
	for _, e := range f.history {
		if e.UserID != userID {
			kept = append(kept, e)
		}
	}
	f.history = kept
	return nil
}

type fakePodcastRepo struct {
	mu       sync.Mutex
	podcasts map[string]*models.Podcast
	likes    map[pair]bool // podcastID, userID
	dislikes map[pair]bool
	nextID   int
}

func newFakePodcastRepo() *fakePodcastRepo {
	return &fakePodcastRepo{
		podcasts: make(map[string]*models.Podcast),
		likes:    make(map[pair]bool),
		dislikes: make(map[pair]bool),
	}
}

func (f *fakePodcastRepo) put(p *models.Podcast) *models.Podcast {
	f.mu.Lock()
	defer f.mu.Unlock()
	if p.ID == "" {
		f.nextID++
		p.ID = "podcast-" + string(rune('a'+f.nextID))
	}
	f.podcasts[p.ID] = p
	return p
}

func (f *fakePodcastRepo) FindByAnyID(_ *gorm.DB, id string) (*models.Podcast, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, p := range f.podcasts {
		if p.LegacyID == id && p.LegacyID != "" {
			clone := *p
			return &clone, nil
		}
	}
	if p, ok := f.podcasts[id]; ok {
		clone := *p
		return &clone, nil
	}
	return nil, repositories.ErrPodcastNotFound
}

func (f *fakePodcastRepo) FindAll(_ *gorm.DB) ([]models.Podcast, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var all []models.Podcast
	for _, p := range f.podcasts {
		all = append(all, *p)
	}
	return all, nil
}

func (f *fakePodcastRepo) FindByUser(_ *gorm.DB, userID string) ([]models.Podcast, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []models.Podcast
	for _, p := range f.podcasts {
		if p.UserID != nil && *p.UserID == userID {
			out = append(out, *p)
		}
	}
	return out, nil
}

func (f *fakePodcastRepo) Create(_ *gorm.DB, p *models.Podcast) error {
	f.put(p)
	return nil
}

func (f *fakePodcastRepo) Save(_ *gorm.DB, p *models.Podcast) error {
	f.put(p)
	return nil
}

func (f *fakePodcastRepo) Delete(_ *gorm.DB, podcastID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.podcasts, podcastID)
	return nil
}

func (f *fakePodcastRepo) DeleteByUser(db *gorm.DB, userID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for id, p := range f.podcasts {
		if p.UserID != nil && *p.UserID == userID {
			delete(f.podcasts, id)
		}
	}
	return nil
}

func (f *fakePodcastRepo) CreateEpisode(_ *gorm.DB, e *models.Episode) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if p, ok := f.podcasts[e.PodcastID]; ok {
		p.Episodes = append(p.Episodes, *e)
	}
	return nil
}

func (f *fakePodcastRepo) IsLiked(_ *gorm.DB, podcastID, userID string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.likes[pair{podcastID, userID}], nil
}

func (f *fakePodcastRepo) IsDisliked(_ *gorm.DB, podcastID, userID string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.dislikes[pair{podcastID, userID}], nil
}

func (f *fakePodcastRepo) AddLike(_ *gorm.DB, podcastID, userID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.likes[pair{podcastID, userID}] = true
	return nil
}

func (f *fakePodcastRepo) RemoveLike(_ *gorm.DB, podcastID, userID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.likes, pair{podcastID, userID})
	return nil
}

func (f *fakePodcastRepo) AddDislike(_ *gorm.DB, podcastID, userID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.dislikes[pair{podcastID, userID}] = true
	return nil
}

func (f *fakePodcastRepo) RemoveDislike(_ *gorm.DB, podcastID, userID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.dislikes, pair{podcastID, userID})
	return nil
}

func (f *fakePodcastRepo) CountLikes(_ *gorm.DB, podcastID string) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var count int64
	for p := range f.likes {
		if p.a == podcastID {
			count++
		}
	}
	return count, nil
}

func (f *fakePodcastRepo) CountDislikes(_ *gorm.DB, podcastID string) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var count int64
	for p := range f.dislikes {
		if p.a == podcastID {
			count++
		}
	}
	return count, nil
}

func (f *fakePodcastRepo) RemoveAllReactions(_ *gorm.DB, userID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for p := range f.likes {
		if p.b == userID {
			delete(f.likes, p)
		}
	}
	for p := range f.dislikes {
		if p.b == userID {
			delete(f.dislikes, p)
		}
	}
	return nil
}

func (f *fakePodcastRepo) IncrementViews(_ *gorm.DB, podcastID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, p := range f.podcasts {
		if p.ID == podcastID || (p.LegacyID != "" && p.LegacyID == podcastID) {
			p.Views++
			return nil
		}
	}
	return repositories.ErrPodcastNotFound
}

type fakeSubscriptionRepo struct {
	mu   sync.Mutex
	subs []*models.Subscription
}

func newFakeSubscriptionRepo() *fakeSubscriptionRepo {
	return &fakeSubscriptionRepo{}
}

func (f *fakeSubscriptionRepo) Create(_ *gorm.DB, sub *models.Subscription) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	clone := *sub
	f.subs = append(f.subs, &clone)
	return nil
}

func (f *fakeSubscriptionRepo) DeleteBySubscriberChannel(_ *gorm.DB, subscriberID, channelID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	kept := f.subs[:0]
	for _, s := range f.subs {
		if !(s.SubscriberID == subscriberID && s.ChannelID == channelID) {
			kept = append(kept, s)
		}
	}
	f.subs = kept
	return nil
}

func (f *fakeSubscriptionRepo) DeleteAllForUser(_ *gorm.DB, userID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	kept := f.subs[:0]
	for _, s := range f.subs {
		if s.SubscriberID != userID && s.ChannelID != userID {
			kept = append(kept, s)
		}
	}
	f.subs = kept
	return nil
}

func (f *fakeSubscriptionRepo) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.subs)
}

type fakeCommentRepo struct {
	mu       sync.Mutex
	comments []*models.Comment
}

func newFakeCommentRepo() *fakeCommentRepo {
	return &fakeCommentRepo{}
}

func (f *fakeCommentRepo) Create(_ *gorm.DB, comment *models.Comment) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	comment.CreatedAt = time.Now()
	clone := *comment
	f.comments = append(f.comments, &clone)
	return nil
}

func (f *fakeCommentRepo) FindByPodcastID(_ *gorm.DB, podcastID string) ([]models.Comment, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []models.Comment
	for _, c := range f.comments {
		if c.PodcastID == podcastID {
			out = append(out, *c)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (f *fakeCommentRepo) DeleteByUser(_ *gorm.DB, userID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	kept := f.comments[:0]
	for _, c := range f.comments {
		if c.UserID != userID {
			kept = append(kept, c)
		}
	}
	f.comments = kept
	return nil
}

type fakeNewsletterRepo struct {
	mu     sync.Mutex
	emails map[string]bool
}

func newFakeNewsletterRepo() *fakeNewsletterRepo {
	return &fakeNewsletterRepo{emails: make(map[string]bool)}
}

func (f *fakeNewsletterRepo) Create(_ *gorm.DB, sub *models.NewsletterSubscriber) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.emails[sub.Email] {
		return repositories.ErrAlreadySubscribedToNewsletter
	}
	f.emails[sub.Email] = true
	return nil
}

func (f *fakeNewsletterRepo) FindByEmail(_ *gorm.DB, email string) (*models.NewsletterSubscriber, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.emails[email] {
		return &models.NewsletterSubscriber{Email: email}, nil
	}
	return nil, gorm.ErrRecordNotFound
}

// --- Записывающий email-провайдер ---

type sentMail struct {
	kind string
	to   string
	code string
	body string
}

type recordingEmail struct {
	mu   sync.Mutex
	sent []sentMail
}

func newRecordingEmail() *recordingEmail {
	return &recordingEmail{}
}

func (r *recordingEmail) record(m sentMail) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sent = append(r.sent, m)
}

func (r *recordingEmail) SendOTP(to, code string) error {
	r.record(sentMail{kind: "otp", to: to, code: code})
	return nil
}

func (r *recordingEmail) SendDeletionOTP(to, code string) error {
	r.record(sentMail{kind: "deletion_otp", to: to, code: code})
	return nil
}

func (r *recordingEmail) SendAccountDeleted(username, userEmail, phone, reason string) error {
	r.record(sentMail{kind: "deleted", to: userEmail, body: reason})
	return nil
}

func (r *recordingEmail) SendNewsletterWelcome(to string) error {
	r.record(sentMail{kind: "newsletter", to: to})
	return nil
}

func (r *recordingEmail) SendNewSubscriber(channelEmail, subscriberName string) error {
	r.record(sentMail{kind: "new_subscriber", to: channelEmail, body: subscriberName})
	return nil
}

func (r *recordingEmail) SendContact(name, replyTo, subject, message string) error {
	r.record(sentMail{kind: "contact", to: replyTo, body: message})
	return nil
}

func (r *recordingEmail) byKind(kind string) []sentMail {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []sentMail
	for _, m := range r.sent {
		if m.kind == kind {
			out = append(out, m)
		}
	}
	return out
}
