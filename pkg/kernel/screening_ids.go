package kernel

type JobID string

func NewJobID(id string) JobID { return JobID(id) }
func (j JobID) String() string { return string(j) }
func (j JobID) IsEmpty() bool  { return string(j) == "" }

type ResumeID string

func NewResumeID(id string) ResumeID { return ResumeID(id) }
func (r ResumeID) String() string    { return string(r) }
func (r ResumeID) IsEmpty() bool     { return string(r) == "" }

type RankingID string

func NewRankingID(id string) RankingID { return RankingID(id) }
func (r RankingID) String() string     { return string(r) }
func (r RankingID) IsEmpty() bool      { return string(r) == "" }

type IngestJobID string

func NewIngestJobID(id string) IngestJobID { return IngestJobID(id) }
func (i IngestJobID) String() string       { return string(i) }
func (i IngestJobID) IsEmpty() bool        { return string(i) == "" }
