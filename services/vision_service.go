package services

import (
	"context"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/rekognition"
	"github.com/aws/aws-sdk-go-v2/service/rekognition/types"
)

// LabelDetector is what the photo intake path needs from a vision backend.
type LabelDetector interface {
	Labels(ctx context.Context, image []byte) ([]string, error)
}

// VisionService labels food photos with Rekognition. Labels only seed the
// estimator prompt; they are never stored.
type VisionService struct {
	client *rekognition.Client
}

func NewVisionService(ctx context.Context, region string) (*VisionService, error) {
	cfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(region))
	if err != nil {
		return nil, err
	}
	return &VisionService{client: rekognition.NewFromConfig(cfg)}, nil
}

// Labels returns up to five labels at 75%+ confidence for the image bytes.
func (v *VisionService) Labels(ctx context.Context, image []byte) ([]string, error) {
	out, err := v.client.DetectLabels(ctx, &rekognition.DetectLabelsInput{
		Image:         &types.Image{Bytes: image},
		MaxLabels:     aws.Int32(5),
		MinConfidence: aws.Float32(75),
	})
	if err != nil {
		return nil, err
	}

	var labels []string
	for _, l := range out.Labels {
		labels = append(labels, *l.Name)
	}
	return labels, nil
}
