package domain

// Player is a lobby participant and their accumulated game stats. Score and
// streak are written only by the per-question fold; no other writer touches
// them.
type Player struct {
	UID         string `json:"uid"`
	Nickname    string `json:"nickname"`
	JoinDate    string `json:"joinDate"` // ISO-8601
	Score       int    `json:"score"`
	Streak      int    `json:"streak"`
	NumCorrect  int    `json:"numCorrect"`
	NumAnswered int    `json:"numAnswered"`
	AvatarKey   string `json:"avatarKey"`
}

// GameAuthor is a game as written by its author: questions plus game-level
// defaults that per-question fields may inherit.
type GameAuthor struct {
	Name             string           `json:"name"`
	DefaultTimeLimit int              `json:"defaultTimeLimit,omitempty"` // seconds; 0 = unset
	Questions        []QuestionAuthor `json:"questions"`
}

// GameRuntime is a compiled game: every question has an id and fully
// resolved settings. Owned by its lobby; questions are mutated in place only
// at preparation time (shuffle) and answer-submission time.
type GameRuntime struct {
	Name             string            `json:"name"`
	DefaultTimeLimit int               `json:"defaultTimeLimit,omitempty"`
	Questions        []QuestionRuntime `json:"questions"`
}

// QuestionByID returns a pointer into the game's question slice, or nil if
// the id is unknown.
func (g *GameRuntime) QuestionByID(id string) *QuestionRuntime {
	for i := range g.Questions {
		if g.Questions[i].ID == id {
			return &g.Questions[i]
		}
	}
	return nil
}

// GameOptions are the host's lobby-creation toggles.
type GameOptions struct {
	ShuffleQuestions bool `json:"shuffleQuestions"`
	ShuffleAnswers   bool `json:"shuffleAnswers"`
}

// LobbyStatus is the phase the lobby is in.
type LobbyStatus string

const (
	StatusNotStarted  LobbyStatus = "notStarted"
	StatusPreview     LobbyStatus = "preview"
	StatusAnswering   LobbyStatus = "answering"
	StatusShowAnswer  LobbyStatus = "showAnswer"
	StatusLeaderboard LobbyStatus = "leaderboard"
	StatusFinalScore  LobbyStatus = "finalScore"
	StatusCompleted   LobbyStatus = "completed"
)

// Lobby is one game session: a join code, the player roster, the compiled
// game, and the live question cursor. CurrentQuestionID always resolves to a
// question of GameData, and CurrentIndex is its position in QuestionOrder.
type Lobby struct {
	LobbyCode         string            `json:"lobbyCode"`
	HostID            string            `json:"hostId"`
	Players           map[string]Player `json:"players"`
	LobbyStatus       LobbyStatus       `json:"lobbyStatus"`
	GameData          GameRuntime       `json:"gameData"`
	CurrentQuestionID string            `json:"currentQuestion"`
	QuestionOrder     []string          `json:"questionOrder"`
	CurrentIndex      int               `json:"currentIndex"`
	GameOptions       GameOptions       `json:"gameOptions"`
	LastUpdated       string            `json:"lastUpdated"` // ISO-8601, refreshed on every join/leave
}

// CurrentQuestion resolves the lobby's question cursor.
func (l *Lobby) CurrentQuestion() *QuestionRuntime {
	return l.GameData.QuestionByID(l.CurrentQuestionID)
}
