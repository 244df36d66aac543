package conf

type Bootstrap struct {
	Server  *Server
	Insight *Insight
}

type Server struct {
	Http *HTTP
}

type HTTP struct {
	Addr    string
	Timeout string
}

type Insight struct {
	Source      *Source      `json:"source"`
	Llm         *LLM         `json:"llm"`
	Proxies     []string     `json:"proxies"`
	Fetch       *Fetch       `json:"fetch"`
	Extract     *Extract     `json:"extract"`
	Log         *Log         `json:"log"`
	Concurrency *Concurrency `json:"concurrency"`
	Storage     *Storage     `json:"storage"`
	Schedule    *Schedule    `json:"schedule"`
}

type Source struct {
	TargetUrl string `json:"target_url"`
}

type LLM struct {
	Provider string `json:"provider"`
	BaseUrl  string `json:"base_url"`
	ApiKey   string `json:"api_key"`
	Model    string `json:"model"`
	Timeout  string `json:"timeout"`
}

type Fetch struct {
	Timeout string `json:"timeout"`
}

type Extract struct {
	ReadabilityFallback bool `json:"readability_fallback"`
}

type Log struct {
	Level string `json:"level"`
	File  string `json:"file"`
}

type Concurrency struct {
	Qps int32 `json:"qps"`
	Rpm int32 `json:"rpm"`
}

type Storage struct {
	Driver string `json:"driver"`
	Path   string `json:"path"`
	Dsn    string `json:"dsn"`
	Db     *DB    `json:"db"`
	Redis  *Redis `json:"redis"`
}

type DB struct {
	Host     string `json:"host"`
	Port     int32  `json:"port"`
	User     string `json:"user"`
	Password string `json:"password"`
	Name     string `json:"name"`
}

type Redis struct {
	Addr     string `json:"addr"`
	Password string `json:"password"`
	Db       int32  `json:"db"`
}

type Schedule struct {
	Crawl string `json:"crawl"`
}
