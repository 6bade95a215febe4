package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// TranslationJob records one completed translation pipeline run. Jobs are
// written once after the worker succeeds and never updated in place.
type TranslationJob struct {
	ID             primitive.ObjectID `json:"id"             bson:"_id,omitempty"`
	UserID         primitive.ObjectID `json:"userId"         bson:"userId"`
	OriginalFile   string             `json:"originalFile"   bson:"originalFile"`
	TranslatedFile string             `json:"translatedFile" bson:"translatedFile"`
	JSONReport     string             `json:"jsonReport"     bson:"jsonReport"`
	SrcLang        string             `json:"srcLang"        bson:"srcLang"`
	TgtLang        string             `json:"tgtLang"        bson:"tgtLang"`
	Progress       float64            `json:"progress"       bson:"progress"`
	CreatedAt      time.Time          `json:"created"        bson:"createdAt"`
}

func (TranslationJob) CollectionName() string { return "translations" }

// SimilarityJob records one completed similarity pipeline run.
type SimilarityJob struct {
	ID             primitive.ObjectID `json:"id"             bson:"_id,omitempty"`
	UserID         primitive.ObjectID `json:"userId"         bson:"userId"`
	OriginalFile   string             `json:"originalFile"   bson:"originalFile"`
	TranslatedFile string             `json:"translatedFile" bson:"translatedFile"`
	BackTranslated string             `json:"backTranslated" bson:"backTranslated"`
	JSONReport     string             `json:"jsonReport"     bson:"jsonReport"`
	Threshold      float64            `json:"threshold"      bson:"threshold"`
	CreatedAt      time.Time          `json:"created"        bson:"createdAt"`
}

func (SimilarityJob) CollectionName() string { return "similarities" }
