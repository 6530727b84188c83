package career

import (
	"sort"
	"strings"
)

// Path 描述一条娱乐行业职业路径的静态信息。
// 目录在进程启动时固定，运行期间只读，不做持久化。
type Path struct {
	// Name 为职业名称，同时作为目录内的唯一标识。
	Name string
	// Description 为一段面向用户的职业简介。
	Description string
	// Skills 为该职业的核心技能标签。
	Skills []string
	// WorkStyle 为该职业的工作方式标签。
	WorkStyle []string
	// SalaryRange 为粗略的薪资区间描述（展示用，非结构化）。
	SalaryRange string
	// Education 为推荐的教育/培训背景。
	Education string
	// EntryPath 为入行建议。
	EntryPath string
}

// paths 为内置职业目录，key 为稳定的内部标识。
var paths = map[string]Path{
	"audio_engineer": {
		Name:        "Audio Engineer",
		Description: "Record, mix, and master audio in studios or live settings. Work with artists, producers, and technical equipment to create high-quality sound.",
		Skills:      []string{"technical aptitude", "attention to detail", "music knowledge", "problem-solving", "audio software proficiency"},
		WorkStyle:   []string{"technical", "independent", "studio-based", "deadline-driven", "hands-on"},
		SalaryRange: "$40k-$120k",
		Education:   "Audio engineering certificate, associate's or bachelor's degree in audio production recommended",
		EntryPath:   "Start as assistant engineer, intern at studios, build portfolio with independent projects",
	},
	"music_producer": {
		Name:        "Music Producer",
		Description: "Create and produce music tracks, work with artists to develop their sound, oversee recording sessions, and make creative decisions about arrangement and production.",
		Skills:      []string{"creative", "technical", "collaboration", "music theory", "DAW proficiency", "arrangement"},
		WorkStyle:   []string{"creative", "collaborative", "flexible hours", "project-based", "entrepreneurial"},
		SalaryRange: "$35k-$150k+ (highly variable)",
		Education:   "Music production courses, self-taught with strong portfolio, or music degree",
		EntryPath:   "Start making beats independently, build online presence, network with artists, offer affordable production services",
	},
	"content_creator": {
		Name:        "Content Creator / Influencer",
		Description: "Create engaging content for social media, YouTube, TikTok, or other digital platforms. Build an audience and monetize through sponsorships, ads, or products.",
		Skills:      []string{"creative", "video editing", "communication", "marketing", "social media savvy", "storytelling"},
		WorkStyle:   []string{"independent", "flexible", "online", "entrepreneurial", "self-motivated"},
		SalaryRange: "$20k-$500k+ (extremely variable)",
		Education:   "No formal education required, but digital media or marketing courses helpful",
		EntryPath:   "Start creating content consistently, find your niche, engage with audience, learn platform algorithms",
	},
	"video_editor": {
		Name:        "Video Editor / Post-Production Specialist",
		Description: "Edit video content for films, TV shows, YouTube, commercials, or social media. Shape stories through cutting, color correction, and effects.",
		Skills:      []string{"technical", "creative", "storytelling", "software proficiency", "attention to detail", "pacing"},
		WorkStyle:   []string{"independent", "deadline-driven", "detail-oriented", "project-based"},
		SalaryRange: "$35k-$90k",
		Education:   "Film school, self-taught with portfolio, or digital media degree",
		EntryPath:   "Build portfolio with personal projects, offer services on Fiverr/Upwork, assist established editors",
	},
	"sound_designer": {
		Name:        "Sound Designer",
		Description: "Create audio effects, soundscapes, and original sounds for films, games, theater, or other media. Combine technical skills with creative innovation.",
		Skills:      []string{"creative", "technical", "audio software", "innovation", "collaboration", "field recording"},
		WorkStyle:   []string{"creative", "technical", "project-based", "collaborative", "experimental"},
		SalaryRange: "$45k-$100k",
		Education:   "Audio production degree or sound design certificate",
		EntryPath:   "Build sound library, create demo reel, work on indie films/games, network in industry",
	},
	"talent_manager": {
		Name:        "Talent Manager / Entertainment Manager",
		Description: "Manage artists' careers, negotiate deals, book gigs, develop strategies, and guide artists toward their goals. Be the business brain behind creative talent.",
		Skills:      []string{"business", "networking", "negotiation", "communication", "organization", "people skills"},
		WorkStyle:   []string{"people-oriented", "business-minded", "fast-paced", "networking-focused", "entrepreneurial"},
		SalaryRange: "$40k-$200k+ (often commission-based)",
		Education:   "Business degree helpful but not required, entertainment industry knowledge essential",
		EntryPath:   "Start at talent agency, manage local artists, build relationships, understand contracts",
	},
	"concert_promoter": {
		Name:        "Concert Promoter / Event Producer",
		Description: "Organize and promote live entertainment events, concerts, and shows. Handle logistics, marketing, venue booking, and ticket sales.",
		Skills:      []string{"organization", "marketing", "networking", "budget management", "multitasking", "sales"},
		WorkStyle:   []string{"entrepreneurial", "people-oriented", "high-energy", "deadline-driven", "risk-taking"},
		SalaryRange: "$35k-$100k+ (variable, event-dependent)",
		Education:   "Event management or business degree helpful",
		EntryPath:   "Volunteer at events, work at venues, start small local events, build network of artists and vendors",
	},
	"music_journalist": {
		Name:        "Music Journalist / Critic",
		Description: "Write about music, interview artists, review albums and concerts, and cover the music industry for publications, blogs, or media outlets.",
		Skills:      []string{"writing", "music knowledge", "communication", "research", "interviewing", "deadlines"},
		WorkStyle:   []string{"independent", "creative", "flexible", "deadline-driven", "research-focused"},
		SalaryRange: "$30k-$80k",
		Education:   "Journalism or communications degree recommended",
		EntryPath:   "Start music blog, pitch articles to publications, build portfolio, attend shows and network",
	},
	"broadcast_technician": {
		Name:        "Broadcast Technician / Production Engineer",
		Description: "Operate equipment for TV, radio, or streaming broadcasts. Set up cameras, audio, lighting, and ensure technical quality of live or recorded content.",
		Skills:      []string{"technical", "problem-solving", "attention to detail", "equipment operation", "quick thinking"},
		WorkStyle:   []string{"technical", "shift-based", "team-oriented", "fast-paced", "hands-on"},
		SalaryRange: "$35k-$75k",
		Education:   "Broadcasting or communications degree, or technical certification",
		EntryPath:   "Intern at TV/radio station, work at college station, learn equipment, get certified",
	},
	"lighting_designer": {
		Name:        "Lighting Designer / Lighting Technician",
		Description: "Design and operate lighting for concerts, theater productions, events, or film/TV sets. Create visual atmosphere through lighting choices.",
		Skills:      []string{"creative", "technical", "artistic vision", "collaboration", "equipment knowledge", "programming"},
		WorkStyle:   []string{"creative", "technical", "project-based", "collaborative", "hands-on"},
		SalaryRange: "$40k-$90k",
		Education:   "Theater tech degree or lighting design courses",
		EntryPath:   "Work on local theater productions, assist established designers, learn lighting boards and equipment",
	},
	"dj": {
		Name:        "DJ / Club DJ / Radio DJ",
		Description: "Mix and play music for live audiences at clubs, events, or on radio/streaming platforms. Read crowds, create energy, and curate musical experiences.",
		Skills:      []string{"music knowledge", "technical skills", "crowd reading", "beatmatching", "marketing", "performance"},
		WorkStyle:   []string{"performance-based", "night/weekend work", "independent", "entrepreneurial", "social"},
		SalaryRange: "$25k-$200k+ (highly variable)",
		Education:   "No formal education required, DJ courses available",
		EntryPath:   "Practice at home, play house parties, build online presence, network with promoters, start with small gigs",
	},
	"a_and_r": {
		Name:        "A&R (Artists & Repertoire)",
		Description: "Scout and develop new talent for record labels. Find promising artists, guide their development, and connect them with producers and songwriters.",
		Skills:      []string{"music knowledge", "networking", "talent spotting", "communication", "business sense", "trend awareness"},
		WorkStyle:   []string{"networking-focused", "research-intensive", "collaborative", "travel-involved", "trend-watching"},
		SalaryRange: "$45k-$120k",
		Education:   "Music business degree helpful",
		EntryPath:   "Work at record label, build network of artists, attend shows constantly, develop ear for talent",
	},
	"music_teacher": {
		Name:        "Music Teacher / Instructor",
		Description: "Teach music theory, instruments, or production to students of various ages. Work in schools, private lessons, or online platforms.",
		Skills:      []string{"teaching", "patience", "music knowledge", "communication", "organization", "instrument proficiency"},
		WorkStyle:   []string{"structured", "people-oriented", "flexible schedule", "independent or institutional"},
		SalaryRange: "$35k-$70k (varies by setting)",
		Education:   "Music degree often required for schools, less formal for private teaching",
		EntryPath:   "Get teaching certification (if school-based), start private lessons, build reputation, use online platforms",
	},
	"tour_manager": {
		Name:        "Tour Manager / Road Manager",
		Description: "Coordinate all logistics for artists on tour including travel, accommodations, schedules, budgets, and problem-solving on the road.",
		Skills:      []string{"organization", "problem-solving", "communication", "budget management", "flexibility", "people skills"},
		WorkStyle:   []string{"travel-heavy", "unpredictable", "fast-paced", "multitasking", "hands-on"},
		SalaryRange: "$40k-$100k",
		Education:   "No specific degree required, event management helpful",
		EntryPath:   "Work on small tours, assist established tour managers, start with local acts, build reputation",
	},
	"music_video_director": {
		Name:        "Music Video Director",
		Description: "Direct and produce music videos for artists. Develop creative concepts, work with cinematographers, and bring artistic vision to life.",
		Skills:      []string{"creative vision", "directing", "storytelling", "collaboration", "visual aesthetics", "technical knowledge"},
		WorkStyle:   []string{"creative", "project-based", "collaborative", "deadline-driven", "entrepreneurial"},
		SalaryRange: "$40k-$150k+ (project-dependent)",
		Education:   "Film school or self-taught with strong portfolio",
		EntryPath:   "Make videos for local artists, build portfolio, use affordable equipment, network with musicians",
	},
	"streaming_specialist": {
		Name:        "Streaming Content Manager / Live Stream Producer",
		Description: "Manage live streaming content for platforms like Twitch, YouTube Live, or corporate streams. Handle technical setup, production, and audience engagement.",
		Skills:      []string{"technical", "multitasking", "audience engagement", "problem-solving", "software proficiency", "creativity"},
		WorkStyle:   []string{"tech-focused", "flexible hours", "online-based", "fast-paced", "independent or team"},
		SalaryRange: "$35k-$80k",
		Education:   "Digital media or broadcasting background helpful",
		EntryPath:   "Start own stream, work for streamers, build technical skills, learn OBS and streaming software",
	},
	"songwriter": {
		Name:        "Songwriter / Lyricist",
		Description: "Write songs for yourself or other artists. Create melodies, lyrics, and musical compositions. Work independently or collaborate with artists and producers.",
		Skills:      []string{"creative writing", "music theory", "melody creation", "collaboration", "instrument proficiency", "storytelling"},
		WorkStyle:   []string{"creative", "flexible", "independent or collaborative", "project-based", "introspective"},
		SalaryRange: "$25k-$200k+ (royalty-based, highly variable)",
		Education:   "No formal education required, music theory helpful",
		EntryPath:   "Write constantly, co-write with others, pitch songs to artists, register with PROs, build catalog",
	},
	"podcast_producer": {
		Name:        "Podcast Producer / Audio Producer",
		Description: "Produce podcasts from conception to publication. Handle recording, editing, sound design, and distribution. Work with hosts to create engaging audio content.",
		Skills:      []string{"audio editing", "storytelling", "organization", "creativity", "technical skills", "communication"},
		WorkStyle:   []string{"independent", "deadline-driven", "creative", "detail-oriented", "flexible"},
		SalaryRange: "$35k-$85k",
		Education:   "Audio production or journalism background helpful",
		EntryPath:   "Start own podcast, learn editing software, offer production services, build portfolio",
	},
}

// All 返回完整的职业目录（key -> Path）。
// 返回浅拷贝 map，防止调用方误改内置目录。
func All() map[string]Path {
	out := make(map[string]Path, len(paths))
	for k, v := range paths {
		out[k] = v
	}
	return out
}

// Ordered 按内部 key 排序返回所有职业路径。
// 目录本体是 map，排序保证 prompt 拼接等场景输出稳定。
func Ordered() []Path {
	keys := make([]string, 0, len(paths))
	for k := range paths {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	out := make([]Path, 0, len(keys))
	for _, k := range keys {
		out = append(out, paths[k])
	}
	return out
}

// ByName 按名称查找职业路径：先精确匹配（忽略大小写），再做子串匹配。
// 未找到时返回 false。
func ByName(name string) (Path, bool) {
	lower := strings.ToLower(name)

	for _, p := range paths {
		if strings.ToLower(p.Name) == lower {
			return p, true
		}
	}
	for _, p := range paths {
		if strings.Contains(strings.ToLower(p.Name), lower) {
			return p, true
		}
	}
	return Path{}, false
}

// Exists 判断名称是否能匹配到目录内的某条职业路径。
func Exists(name string) bool {
	_, ok := ByName(name)
	return ok
}

// BySkill 返回技能标签中包含指定关键字的职业路径。
func BySkill(skill string) []Path {
	lower := strings.ToLower(skill)
	var out []Path
	for _, p := range Ordered() {
		for _, s := range p.Skills {
			if strings.Contains(strings.ToLower(s), lower) {
				out = append(out, p)
				break
			}
		}
	}
	return out
}

// ByWorkStyle 返回工作方式标签中包含指定关键字的职业路径。
func ByWorkStyle(style string) []Path {
	lower := strings.ToLower(style)
	var out []Path
	for _, p := range Ordered() {
		for _, s := range p.WorkStyle {
			if strings.Contains(strings.ToLower(s), lower) {
				out = append(out, p)
				break
			}
		}
	}
	return out
}

// AllSkills 返回目录中全部去重后的技能标签（升序）。
func AllSkills() []string {
	set := map[string]struct{}{}
	for _, p := range paths {
		for _, s := range p.Skills {
			set[s] = struct{}{}
		}
	}
	return sortedKeys(set)
}

// AllWorkStyles 返回目录中全部去重后的工作方式标签（升序）。
func AllWorkStyles() []string {
	set := map[string]struct{}{}
	for _, p := range paths {
		for _, s := range p.WorkStyle {
			set[s] = struct{}{}
		}
	}
	return sortedKeys(set)
}

func sortedKeys(set map[string]struct{}) []string {
	out := make([]string, 0, len(set))
	for k := range set {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
