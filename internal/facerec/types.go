package facerec

// Person represents an enrolled identity with its reference images
type Person struct {
	ID        int     `json:"id"`
	Name      string  `json:"name"`
	CreatedAt string  `json:"created_at"`
	Images    []Image `json:"images"`
}

// Image represents a single reference image of a person
type Image struct {
	ID        int    `json:"id"`
	Path      string `json:"path"` // server relative URL, e.g. /uploads/faceimages/jan.jpg
	CreatedAt string `json:"created_at,omitempty"`
}

// NameUpdate is the request body for renaming a person
type NameUpdate struct {
	Name string `json:"name" validate:"required,max=100"`
}

// RetrainResponse is returned when a training run is requested
type RetrainResponse struct {
	Success bool   `json:"success"`
	Status  string `json:"status,omitempty"`
	Error   string `json:"error,omitempty"`
}

// TrainingStatus is a snapshot of the remote training job.
// The is_training/progress/error triple is authoritative; any "status"
// field sent by older backends is ignored.
type TrainingStatus struct {
	IsTraining      bool    `json:"is_training"`
	Progress        int     `json:"progress"`
	Message         string  `json:"message"`
	Error           string  `json:"error,omitempty"`
	CurrentEpoch    int     `json:"current_epoch,omitempty"`
	TotalEpochs     int     `json:"total_epochs,omitempty"`
	CurrentAccuracy float64 `json:"current_accuracy,omitempty"`
	BestAccuracy    float64 `json:"best_accuracy,omitempty"`
	Timestamp       string  `json:"timestamp,omitempty"`
}

// ModelStats holds aggregate statistics about the trained model
type ModelStats struct {
	LastTrained  string  `json:"last_trained"` // ISO timestamp or "Never"
	Accuracy     float64 `json:"accuracy"`     // fraction 0..1
	TotalImages  int     `json:"total_images"`
	TotalPersons int     `json:"total_persons"`
}

// TrainingHistory holds per-epoch metrics of the last finished training run
type TrainingHistory struct {
	Timestamp string      `json:"timestamp"`
	Accuracy  float64     `json:"accuracy"`
	History   EpochSeries `json:"history"`
}

// EpochSeries holds metric values indexed by epoch
type EpochSeries struct {
	Accuracy []float64 `json:"accuracy"`
	Loss     []float64 `json:"loss"`
}

// RecognitionResult is the best match for a submitted photo
type RecognitionResult struct {
	ImageURL   string  `json:"image_url"`
	Name       string  `json:"name"`
	Confidence float64 `json:"confidence"` // percentage 0..100
}

// UploadFile is an in-memory file sent as a multipart part
type UploadFile struct {
	Name        string
	ContentType string
	Data        []byte
}
