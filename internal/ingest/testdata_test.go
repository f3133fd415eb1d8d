// ABOUTME: Shared CSV fixtures for ingest tests.
// ABOUTME: Column layouts mirror real Hevy, Strong and Jefit exports.
package ingest

const hevyCSV = `title,start_time,end_time,exercise_title,set_index,set_type,weight_kg,reps
Push,"15 Jan 2024, 18:30","15 Jan 2024, 19:30",Bench Press (Barbell),0,normal,100,5
Push,"15 Jan 2024, 18:30","15 Jan 2024, 19:30",Bench Press (Barbell),1,normal,100,4
Pull,"3 Feb 2024, 07:05","3 Feb 2024, 08:00",Lat Pulldown (Cable),0,normal,55,12
`

const strongCSV = `Date,Workout Name,Exercise Name,Set Order,Weight,Reps,Distance,Seconds
2023-06-01 17:00:00,Chest,Bench Press (Dumbbell),1,30,10,0,0
2023-06-01 17:00:00,Chest,Bench Press (Dumbbell),2,32.5,8,0,0
`

const jefitCSV = `mydate,ename,logs
2022-11-20,Barbell Bench Press,"100x10,,80x12"
2022-11-21,Incline Dumbbell Press,"30x10,30x9,28x10"
2022-11-22,Plank,
`
