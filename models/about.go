package models

import "time"

// About holds the copy of the about page. It is stored as a single document.
type About struct {
	StoryText       string    `json:"storyText"`
	Email           string    `json:"email"`
	Instagram       string    `json:"instagram"`
	AnotherProjects []string  `json:"anotherProjects"`
	Partners        string    `json:"partners"`
	UpdatedAt       time.Time `json:"updatedAt,omitempty"`
}

// DefaultAbout is served until the about document has been saved once.
func DefaultAbout() About {
	return About{
		StoryText: "서울에서 만들어진 그래픽 디자인 스튜디오 어랏은, 의뢰 프로젝트에 대한 깊은 이해를 바탕으로\n" +
			"웹사이트, 그래픽, 모션, 에디토리얼 등 다양한 시각적 결과물을 고민하고 제안합니다.\n" +
			"시선을 끄는 글, 흥미로운 코드, 기분좋은 그래픽을 신조로, 생각에서 출발한 디자인이\n" +
			"소비자에게 도착하기까지의 모든 과정을 연구합니다.",
		Email:     "contact@alolot.kr",
		Instagram: "https://www.instagram.com/alolot.kr/",
		AnotherProjects: []string{
			"2025, Child Knee Kick 참여",
			"2025, Things After... 참여",
			"2025, ISSUEGRAPHY 참여",
			"2024, 〈냠냠쩝쩝 레터링〉 워크숍 진행",
			"2024, 〈2024 서울시립대학교 시각디자인전공 졸업전시회〉 기획, 참여",
			"2024, 〈모두의 국악상점〉 전시 참여",
			"2024, 〈북 바인딩〉 워크숍 기획, 진행",
			"2024, 〈빌딩 프린트룸〉 워크숍 기획, 진행",
			"2023, 〈가까이 더 가까이: 몸, 공간, 활자〉 워크숍 도움",
			"2022, 〈세상 모두가 부리부리몬〉 전시 기획, 참여",
			"2022, WHOOPPY! 운영",
			"2021, 〈편견의말들〉 전시 참여",
			"2019, 〈ON THE SHELF〉 전시 참여",
		},
		Partners: "안전가옥, 하자센터, 이응셋, 플레디스 엔터테인먼트, 비투비컴퍼니, KIOT, 보더라인벤처스,\n" +
			"서울시립대학교, 서울휴먼라이브러리, apM, 윤보인, 비러프, TT서울, 국립국악원,\n" +
			"First Things First, Things After..., 에이투지 엔터테인먼트, 파도스터프, 텔로, 모닝아트,\n" +
			"온키, 스튜디오 노마드, 데스커, 크리에이팁, 식스샵, 운생동 건축사사무소, 셋더스테이지,\n" +
			"비팩토리, Eider, ISSUEGRAPHY, Child Knee Kick",
	}
}
