package recommend

import (
	"fmt"
	"strings"
)

// 推荐理由类型
const (
	ReasonPeople   = "people"
	ReasonFriends  = "friends"
	ReasonGenre    = "genre"
	ReasonSelected = "selected"
	ReasonRating   = "rating"
	ReasonGeneral  = "general"
)

// highRatingThreshold 达到该综合评分时可作为“高分”理由
const highRatingThreshold = 8.0

// maxNamesInReason 理由中最多列出的影人数
const maxNamesInReason = 2

// Reason 展示给用户的一句推荐理由
type Reason struct {
	Kind string `json:"kind"`
	Text string `json:"text"`
}

type reasonPhrases struct {
	people   string
	friends  string
	genre    string
	selected string
	rating   string
	general  string
}

var recommendationPhrases = reasonPhrases{
	people:   "你喜欢的 %s 参与了这部电影",
	friends:  "你的好友也喜欢这类电影",
	genre:    "属于你偏爱的%s类型",
	selected: "与你喜欢列表中的电影相似",
	rating:   "高分佳作（%.1f 分）",
	general:  "根据你的口味推荐",
}

var similarPhrases = reasonPhrases{
	people:  "同样由 %s 参与",
	genre:   "同属%s类型",
	rating:  "同类高分佳作（%.1f 分）",
	general: "风格相近",
}

// Explain 为推荐结果生成一句理由。
// 优先级：共同影人 > 好友 > 类型 > 喜欢列表 > 高分；names 为影人 ID 到姓名的映射，可为 nil。
func Explain(r RankedMovie, names map[int]string) Reason {
	return explain(r, names, recommendationPhrases)
}

// ExplainSimilar 为相似电影生成理由
func ExplainSimilar(r RankedMovie, names map[int]string) Reason {
	return explain(r, names, similarPhrases)
}

func explain(r RankedMovie, names map[int]string, ph reasonPhrases) Reason {
	if listed := personNames(r.MatchedPeopleIDs, names); listed != "" {
		return Reason{Kind: ReasonPeople, Text: fmt.Sprintf(ph.people, listed)}
	}
	if r.FromFriends && r.Breakdown.Friends > 0 && ph.friends != "" {
		return Reason{Kind: ReasonFriends, Text: ph.friends}
	}
	if len(r.MatchedGenres) > 0 {
		return Reason{Kind: ReasonGenre, Text: fmt.Sprintf(ph.genre, r.MatchedGenres[0])}
	}
	if r.FromSelectedMovies && r.Breakdown.SelectedMovies > 0 && ph.selected != "" {
		return Reason{Kind: ReasonSelected, Text: ph.selected}
	}
	if r.AggregateRating != nil && *r.AggregateRating >= highRatingThreshold {
		return Reason{Kind: ReasonRating, Text: fmt.Sprintf(ph.rating, *r.AggregateRating)}
	}
	return Reason{Kind: ReasonGeneral, Text: ph.general}
}

// personNames 按 ID 顺序取出已知姓名，超出部分以“等”结尾
func personNames(ids []int, names map[int]string) string {
	var known []string
	for _, id := range ids {
		if name := names[id]; name != "" {
			known = append(known, name)
		}
	}
	if len(known) == 0 {
		return ""
	}
	if len(known) > maxNamesInReason {
		return strings.Join(known[:maxNamesInReason], "、") + " 等"
	}
	return strings.Join(known, "、")
}
